package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFiles embed.FS

// LoadTemplates parses the page templates. Each page is a named template
// ("home", "login", "register", "dashboard") sharing the "head"/"foot" partials.
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.New("mentoria").
		Funcs(template.FuncMap{
			"join": func(values []string) string { return strings.Join(values, ", ") },
		}).
		ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
