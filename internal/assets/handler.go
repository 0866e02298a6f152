package assets

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/logger"
	"go.uber.org/zap"
)

const cacheControl = "public, max-age=3600"

// Handler serves "/static/*filepath" from src.
func Handler(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("filepath"), "/")
		if name == "" || strings.Contains(name, "..") || !fs.ValidPath(name) {
			c.Status(http.StatusNotFound)
			return
		}

		obj, err := src.Open(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.Status(http.StatusNotFound)
				return
			}
			logger.FromContext(c).Error("open asset", zap.String("name", name), zap.Error(err))
			c.Status(http.StatusBadGateway)
			return
		}
		defer obj.Body.Close()

		headers := map[string]string{"Cache-Control": cacheControl}
		if !obj.ModTime.IsZero() {
			headers["Last-Modified"] = obj.ModTime.UTC().Format(http.TimeFormat)
		}
		c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, headers)
	}
}
