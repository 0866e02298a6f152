package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/apiclient"
	"github.com/mentoria/mentoria/internal/config"
	"github.com/mentoria/mentoria/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAccess = "valid-access"

// fakeAPI mimics the auth API endpoints and counts the calls it receives.
type fakeAPI struct {
	loginCalls    atomic.Int32
	registerCalls atomic.Int32
	profileCalls  atomic.Int32

	registerStatus int
	registerBody   string
	lastRegister   map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case apiclient.LoginPath:
		f.loginCalls.Add(1)
		var creds apiclient.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username == "mtremblay" && creds.Password == "StrongPass1!" {
			_, _ = w.Write([]byte(`{"access":"` + validAccess + `","refresh":"valid-refresh"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))

	case apiclient.RegisterPath:
		f.registerCalls.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&f.lastRegister)
		status := f.registerStatus
		if status == 0 {
			status = http.StatusCreated
		}
		body := f.registerBody
		if body == "" {
			body = `{"message":"Inscription réussie","tokens":{"access":"new-access","refresh":"new-refresh"}}`
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))

	case apiclient.ProfilePath:
		f.profileCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+validAccess {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"id": 1,
			"username": "mtremblay",
			"email": "marie@example.com",
			"first_name": "Marie",
			"last_name": "Tremblay",
			"teacher_profile": {
				"commission_scolaire": "CSS de Montréal",
				"school_name": "École Saint-Louis",
				"grade_levels": ["5e année", "6e année"],
				"subjects": [],
				"phone_number": ""
			}
		}`))

	default:
		http.NotFound(w, r)
	}
}

func newTestApp(t *testing.T, api *fakeAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	return newRouter(t, apiclient.New(srv.URL, srv.Client()))
}

func newRouter(t *testing.T, api AuthAPI) *gin.Engine {
	t.Helper()

	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	RegisterRoutes(router, NewHandler(api, session.NewStore(config.CookieConfig{MaxAge: time.Hour})))
	return router
}

func postForm(router http.Handler, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func responseCookies(rr *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, cookie := range rr.Result().Cookies() {
		out[cookie.Name] = cookie
	}
	return out
}

func TestHomePage(t *testing.T) {
	router := newTestApp(t, &fakeAPI{})

	rr := get(router, RouteHome)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "L'assistant IA pour les enseignants du Québec")
	assert.Contains(t, body, `href="/connexion"`)
	assert.Contains(t, body, `href="/inscription"`)
}

func TestLoginPageRendersForm(t *testing.T) {
	router := newTestApp(t, &fakeAPI{})

	rr := get(router, RouteLogin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="username"`)
	assert.Contains(t, rr.Body.String(), `name="password"`)
	assert.NotContains(t, rr.Body.String(), `class="alert"`)
}

func TestLoginSuccessStoresTokensAndRedirects(t *testing.T) {
	api := &fakeAPI{}
	router := newTestApp(t, api)

	rr := postForm(router, RouteLogin, url.Values{"username": {"mtremblay"}, "password": {"StrongPass1!"}})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, RouteDashboard, rr.Header().Get("Location"))

	cookies := responseCookies(rr)
	require.Contains(t, cookies, session.AccessCookie)
	require.Contains(t, cookies, session.RefreshCookie)
	assert.Equal(t, validAccess, cookies[session.AccessCookie].Value)
	assert.Equal(t, "valid-refresh", cookies[session.RefreshCookie].Value)
	assert.Equal(t, int32(1), api.loginCalls.Load())
}

func TestLoginInvalidCredentialsShowsFixedMessage(t *testing.T) {
	router := newTestApp(t, &fakeAPI{})

	rr := postForm(router, RouteLogin, url.Values{"username": {"mtremblay"}, "password": {"wrong"}})

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Nom d&#39;utilisateur ou mot de passe incorrect")
	assert.Contains(t, rr.Body.String(), `value="mtremblay"`)
	assert.Empty(t, rr.Result().Cookies())
}

func TestLoginServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	router := newRouter(t, apiclient.New(baseURL, nil))

	rr := postForm(router, RouteLogin, url.Values{"username": {"mtremblay"}, "password": {"StrongPass1!"}})

	require.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), msgServerUnavailable)
	assert.Empty(t, rr.Result().Cookies())
}

func TestDashboardWithoutTokenRedirectsWithoutProfileRequest(t *testing.T) {
	api := &fakeAPI{}
	router := newTestApp(t, api)

	rr := get(router, RouteDashboard)

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, RouteLogin, rr.Header().Get("Location"))
	assert.Equal(t, int32(0), api.profileCalls.Load())
}

func TestDashboardRendersProfile(t *testing.T) {
	api := &fakeAPI{}
	router := newTestApp(t, api)

	rr := get(router, RouteDashboard, &http.Cookie{Name: session.AccessCookie, Value: validAccess})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Bonjour, Marie Tremblay!")
	assert.Contains(t, body, "marie@example.com")
	assert.Contains(t, body, "École Saint-Louis")
	assert.Contains(t, body, "5e année, 6e année")
	assert.NotContains(t, body, "Matières:")
	assert.NotContains(t, body, "Téléphone:")
	assert.Equal(t, int32(1), api.profileCalls.Load())
}

func TestDashboardRejectedTokenClearsAndRedirects(t *testing.T) {
	api := &fakeAPI{}
	router := newTestApp(t, api)

	rr := get(router, RouteDashboard,
		&http.Cookie{Name: session.AccessCookie, Value: "expired"},
		&http.Cookie{Name: session.RefreshCookie, Value: "old-refresh"},
	)

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, RouteLogin, rr.Header().Get("Location"))

	cookies := responseCookies(rr)
	require.Contains(t, cookies, session.AccessCookie)
	require.Contains(t, cookies, session.RefreshCookie)
	assert.Equal(t, -1, cookies[session.AccessCookie].MaxAge)
	assert.Equal(t, -1, cookies[session.RefreshCookie].MaxAge)
	assert.Equal(t, int32(1), api.profileCalls.Load())
}

func TestDashboardUnreachableKeepsTokens(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	router := newRouter(t, apiclient.New(baseURL, nil))

	rr := get(router, RouteDashboard, &http.Cookie{Name: session.AccessCookie, Value: validAccess})

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, RouteLogin, rr.Header().Get("Location"))
	assert.Empty(t, rr.Result().Cookies())
}

func TestRegisterPageRendersForm(t *testing.T) {
	router := newTestApp(t, &fakeAPI{})

	rr := get(router, RouteRegister)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, field := range []string{"first_name", "last_name", "username", "email", "phone_number",
		"commission_scolaire", "school_name", "password", "password_confirm"} {
		assert.Contains(t, body, `name="`+field+`"`)
	}
}

func registrationValues() url.Values {
	return url.Values{
		"first_name":          {"Marie"},
		"last_name":           {"Tremblay"},
		"username":            {"mtremblay"},
		"email":               {"marie@example.com"},
		"phone_number":        {"514-555-0101"},
		"commission_scolaire": {"CSS de Montréal"},
		"school_name":         {"École Saint-Louis"},
		"password":            {"StrongPass1!"},
		"password_confirm":    {"StrongPass1!"},
	}
}

func TestRegisterSuccessStoresNestedTokens(t *testing.T) {
	api := &fakeAPI{}
	router := newTestApp(t, api)

	rr := postForm(router, RouteRegister, registrationValues())

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, RouteDashboard, rr.Header().Get("Location"))

	cookies := responseCookies(rr)
	assert.Equal(t, "new-access", cookies[session.AccessCookie].Value)
	assert.Equal(t, "new-refresh", cookies[session.RefreshCookie].Value)

	require.NotNil(t, api.lastRegister)
	assert.Equal(t, "mtremblay", api.lastRegister["username"])
	assert.Equal(t, "StrongPass1!", api.lastRegister["password_confirm"])
	profile, ok := api.lastRegister["teacher_profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "514-555-0101", profile["phone_number"])
	assert.Equal(t, "CSS de Montréal", profile["commission_scolaire"])
	assert.Equal(t, []any{}, profile["grade_levels"])
}

func TestRegisterFailureShowsServerMessage(t *testing.T) {
	api := &fakeAPI{
		registerStatus: http.StatusBadRequest,
		registerBody:   `{"message":"Un utilisateur avec cette adresse email existe déjà."}`,
	}
	router := newTestApp(t, api)

	rr := postForm(router, RouteRegister, registrationValues())

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Un utilisateur avec cette adresse email existe déjà.")
	assert.Contains(t, body, `value="marie@example.com"`)
	assert.NotContains(t, body, "StrongPass1!")
	assert.Empty(t, rr.Result().Cookies())
}

func TestRegisterFailureFallsBackToFixedMessage(t *testing.T) {
	api := &fakeAPI{
		registerStatus: http.StatusBadRequest,
		registerBody:   `{"password":["Ce mot de passe est trop courant."]}`,
	}
	router := newTestApp(t, api)

	rr := postForm(router, RouteRegister, registrationValues())

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Une erreur est survenue lors de l&#39;inscription")
}

func TestRegisterRefusalWithListBodies(t *testing.T) {
	api := &fakeAPI{registerStatus: http.StatusBadRequest, registerBody: `["Nom déjà pris"]`}
	rr := postForm(newTestApp(t, api), RouteRegister, registrationValues())

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Une erreur est survenue lors de l&#39;inscription")
	assert.NotContains(t, rr.Body.String(), msgServerUnavailable)

	api = &fakeAPI{registerStatus: http.StatusBadRequest, registerBody: `{"message":["Nom déjà pris"]}`}
	rr = postForm(newTestApp(t, api), RouteRegister, registrationValues())

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Nom déjà pris")
}

func TestRegisterServerErrorIsConnectionError(t *testing.T) {
	api := &fakeAPI{
		registerStatus: http.StatusInternalServerError,
		registerBody:   `Server Error (500)`,
	}
	router := newTestApp(t, api)

	rr := postForm(router, RouteRegister, registrationValues())

	require.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), msgServerUnavailable)
}

func TestLogoutClearsTokens(t *testing.T) {
	router := newTestApp(t, &fakeAPI{})

	rr := postForm(router, RouteLogout, url.Values{}, &http.Cookie{Name: session.AccessCookie, Value: validAccess})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, RouteHome, rr.Header().Get("Location"))
	cookies := responseCookies(rr)
	assert.Equal(t, -1, cookies[session.AccessCookie].MaxAge)
	assert.Equal(t, -1, cookies[session.RefreshCookie].MaxAge)
}
