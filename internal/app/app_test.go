package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	gofakeit "github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgadmin/internal/config"
	"orgadmin/internal/controller"
	"orgadmin/internal/models"
)

func TestAppStartup(t *testing.T) {
	app := StartupApp(t)
	StopApp(app)
}

func TestPing(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	body := ReqTest(t, app, "GET", "/api/ping", "", nil, "ping", http.StatusOK)
	assert.Equal(t, "ok", string(body))
}

func TestInvalidConfig(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Storage = "sqlite"

	_, err := NewApp(context.Background(), WithConfig(cfg), WithLogger(zerolog.Nop()))
	assert.Error(t, err)

	cfg = newTestConfig(t)
	cfg.IdentityProvider = config.IdentityGoTrue
	cfg.GoTrueURL = ""
	_, err = NewApp(context.Background(), WithConfig(cfg), WithLogger(zerolog.Nop()))
	assert.Error(t, err)
}

func TestOrganizationFlow(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	name := "Globex " + gofakeit.DigitN(6)
	body := ReqTest(t, app, "POST", "/api/organizations", fmt.Sprintf(`{"name":%q,"max_coordinators":2,"timezone":"America (GMT-5)"}`, name), nil, "create organization", http.StatusCreated)

	var created controller.MessageResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotNil(t, created.Organization)
	orgId := created.Organization.Id

	ReqTest(t, app, "POST", "/api/organizations", `{"name":"Bad","max_coordinators":7}`, nil, "too many coordinators", http.StatusUnprocessableEntity)
	ReqTest(t, app, "GET", "/api/organizations/"+gofakeit.UUID(), "", nil, "unknown organization", http.StatusNotFound)

	page := ReqTest(t, app, "GET", "/", "", nil, "organizations page", http.StatusOK)
	assert.Contains(t, string(page), name)
	assert.Contains(t, string(page), "/organizations/"+orgId)

	ReqTest(t, app, "POST", "/api/organizations/"+orgId+"/users", `{"email":"kim@example.com","full_name":"Kim Park","role":"co-admin"}`, nil, "add user", http.StatusCreated)
	ReqTest(t, app, "POST", "/api/organizations/"+orgId+"/users", `{"email":"kim@example.com","full_name":"Kim Again"}`, nil, "duplicate identity", http.StatusConflict)

	body = ReqTest(t, app, "GET", "/api/organizations/"+orgId+"/users", "", nil, "list users", http.StatusOK)
	var members []models.MemberView
	require.NoError(t, json.Unmarshal(body, &members))
	require.Len(t, members, 1)
	assert.Equal(t, "Kim Park", members[0].DisplayName())
	assert.Equal(t, models.RoleCoAdmin, members[0].Role)

	page = ReqTest(t, app, "GET", "/organizations/"+orgId+"?tab=users", "", nil, "users tab", http.StatusOK)
	assert.Contains(t, string(page), "Kim Park")

	ReqTest(t, app, "GET", "/organizations/"+gofakeit.UUID(), "", nil, "organization page not found", http.StatusNotFound)
}

func TestHTMLForms(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	form := url.Values{
		"name":            {"Initech"},
		"maxCoordinators": {"4"},
		"timezone":        {string(models.TZEurope)},
		"language":        {string(models.LangSpanish)},
	}
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}

	ReqTest(t, app, "POST", "/organizations", form.Encode(), headers, "create organization form", http.StatusSeeOther)

	form.Set("name", "")
	body := ReqTest(t, app, "POST", "/organizations", form.Encode(), headers, "invalid organization form", http.StatusUnprocessableEntity)
	assert.Contains(t, string(body), controller.MsgOrganizationFailed)

	cross := map[string]string{
		"Content-Type":   "application/x-www-form-urlencoded",
		"Sec-Fetch-Site": "cross-site",
	}
	form.Set("name", "Umbrella")
	ReqTest(t, app, "POST", "/organizations", form.Encode(), cross, "cross origin form", http.StatusForbidden)

	body = ReqTest(t, app, "GET", "/api/organizations", "", nil, "list organizations", http.StatusOK)
	var orgs []models.Organization
	require.NoError(t, json.Unmarshal(body, &orgs))
	require.Len(t, orgs, 1)
	assert.Equal(t, "Initech", orgs[0].Name)
	assert.Equal(t, 4, orgs[0].MaxCoordinators)
	assert.Equal(t, models.LangSpanish, orgs[0].Language)
}

func TestCORS(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	preflight := func(requestHeaders string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, fmt.Sprintf("http://%s/api/organizations", app.cfg.ServerAddress), nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://admin.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		if requestHeaders != "" {
			req.Header.Set("Access-Control-Request-Headers", requestHeaders)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	resp := preflight("content-type")
	assert.Less(t, resp.StatusCode, 300)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = preflight("")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = preflight("x-forbidden")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"), "header outside the allow list")
}

func TestRunListensUntilStopped(t *testing.T) {
	app, err := NewApp(context.Background(), WithConfig(newTestConfig(t)), WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	go app.Run()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", app.cfg.ServerAddress)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond, "Run never started listening")

	app.stopSig <- os.Interrupt
	select {
	case <-app.Done:
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not finish after interrupt")
	}

	_, err = net.Dial("tcp", app.cfg.ServerAddress)
	assert.Error(t, err, "listener is closed after shutdown")
}

func TestMetricsAndStatic(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	ReqTest(t, app, "GET", "/api/organizations", "", nil, "warm cache", http.StatusOK)

	body := ReqTest(t, app, "GET", "/metrics", "", nil, "metrics", http.StatusOK)
	assert.Contains(t, string(body), "orgadmin_query_cache_misses_total")

	body = ReqTest(t, app, "GET", "/static/app.css", "", nil, "stylesheet", http.StatusOK)
	assert.Contains(t, string(body), ".badge")

	ReqTest(t, app, "GET", "/api/unknown", "", nil, "unknown api route", http.StatusNotFound)
}

//// Service

func newTestConfig(t *testing.T) *config.Config {
	cfg, err := config.NewConfig()
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.ServerAddress = l.Addr().String()
	require.NoError(t, l.Close())

	cfg.Storage = config.StorageMemory
	cfg.IdentityProvider = config.IdentityLocal
	cfg.CORSOrigins = []string{"*"}
	cfg.CacheTTL = 0
	return cfg
}

func StartupApp(t *testing.T) *App {
	gofakeit.Seed(0)

	app, err := NewApp(context.Background(), WithConfig(newTestConfig(t)), WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	go app.Run()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/ping", app.cfg.ServerAddress))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	return app
}

func StopApp(app *App) {
	app.stopSig <- os.Interrupt
	<-app.Done
}

var noRedirect = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func ReqTest(t *testing.T, app *App, method, endpoint, body string, headers map[string]string, testName string, expectedStatus int) []byte {
	req, err := http.NewRequest(method, fmt.Sprintf("http://%s%s", app.cfg.ServerAddress, endpoint), strings.NewReader(body))
	require.NoError(t, err, testName)

	if strings.HasPrefix(endpoint, "/api/") {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := noRedirect.Do(req)
	require.NoError(t, err, testName)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err, testName)

	if resp.StatusCode != expectedStatus {
		t.Errorf("%s: %s %s should return status code %d, got %d: %s", testName, method, endpoint, expectedStatus, resp.StatusCode, data)
	}
	return data
}
