package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkeye/Activities/internal/app"
	"github.com/dkeye/Activities/internal/config"
	"github.com/dkeye/Activities/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type activityDetails struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// failingRegistry returns an unclassified error from every mutation.
type failingRegistry struct{ ActivityRegistry }

func (failingRegistry) Signup(string, string) (string, error) {
	return "", assert.AnError
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>activities</html>"), 0o600))
	return &config.Config{
		Mode:       "test",
		Port:       8080,
		StaticPath: static,
		Secret:     "test-secret",
		FeedBuffer: 8,
	}
}

func newTestRouter(t *testing.T, opts ...app.Option) (*gin.Engine, *app.Registry) {
	t.Helper()
	seed, err := app.BuildCatalog(nil)
	require.NoError(t, err)
	reg, err := app.NewRegistry(seed, opts...)
	require.NoError(t, err)
	return SetupRouter(context.Background(), newTestConfig(t), reg, nil), reg
}

func do(t *testing.T, r http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func actionURL(activity, action, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
}

func listActivities(t *testing.T, r http.Handler) map[string]activityDetails {
	t.Helper()
	w := do(t, r, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]activityDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return strings.ToLower(body.Detail)
}

func TestRootServesUI(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), "<html>activities</html>")

	w = do(t, r, http.MethodGet, "/static/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "activities")
}

func TestGetActivities(t *testing.T) {
	r, _ := newTestRouter(t)

	activities := listActivities(t, r)
	require.NotEmpty(t, activities)
	for name, a := range activities {
		assert.NotEmpty(t, name)
		assert.NotEmpty(t, a.Description)
		assert.NotEmpty(t, a.Schedule)
		assert.Positive(t, a.MaxParticipants)
		assert.NotNil(t, a.Participants)
	}
	assert.Contains(t, activities, "Chess Club")
}

func TestGetActivitiesKeepsCatalogOrder(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/activities")
	body := w.Body.String()
	assert.Less(t, strings.Index(body, `"Chess Club"`), strings.Index(body, `"Debate Team"`))
	assert.True(t, strings.HasPrefix(body, `{"Chess Club":`))
}

func TestGetActivity(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/activities/"+url.PathEscape("Programming Class"))
	require.Equal(t, http.StatusOK, w.Code)
	var a activityDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, 20, a.MaxParticipants)

	w = do(t, r, http.MethodGet, "/activities/Nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, detail(t, w), "not found")
}

func TestSignupForActivity(t *testing.T) {
	r, _ := newTestRouter(t)
	const email = "test@mergington.edu"

	w := do(t, r, http.MethodPost, actionURL("Chess Club", "signup", email))
	require.Equal(t, http.StatusOK, w.Code)
	var body MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Signed up test@mergington.edu for Chess Club", body.Message)

	assert.Contains(t, listActivities(t, r)["Chess Club"].Participants, email)
}

func TestDuplicateSignupPrevented(t *testing.T) {
	r, _ := newTestRouter(t)
	const email = "duplicate@mergington.edu"

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, actionURL("Chess Club", "signup", email)).Code)
	before := listActivities(t, r)["Chess Club"].Participants

	w := do(t, r, http.MethodPost, actionURL("Chess Club", "signup", email))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "already signed up")
	assert.Equal(t, before, listActivities(t, r)["Chess Club"].Participants)
}

func TestUnregisterFromActivity(t *testing.T) {
	r, _ := newTestRouter(t)
	const email = "unregister@mergington.edu"

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, actionURL("Chess Club", "signup", email)).Code)

	w := do(t, r, http.MethodPost, actionURL("Chess Club", "unregister", email))
	require.Equal(t, http.StatusOK, w.Code)
	var body MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)

	assert.NotContains(t, listActivities(t, r)["Chess Club"].Participants, email)
}

func TestUnregisterNotSignedUp(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, actionURL("Chess Club", "unregister", "notregistered@mergington.edu"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "not signed up")
}

func TestInvalidActivity(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, action := range []string{"signup", "unregister"} {
		t.Run(action, func(t *testing.T) {
			w := do(t, r, http.MethodPost, actionURL("NonexistentActivity", action, "test@mergington.edu"))
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, detail(t, w), "not found")
		})
	}
}

func TestSignupMissingEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/activities/"+url.PathEscape("Chess Club")+"/signup")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "email is required")
}

func TestSignupFullActivityWithHardCap(t *testing.T) {
	r, reg := newTestRouter(t, app.WithCapacityPolicy(app.HardCapCapacity{}))

	a, err := reg.Get("Math Club")
	require.NoError(t, err)
	for i := len(a.Participants); i < a.MaxParticipants; i++ {
		_, err := reg.Signup("Math Club", string(rune('a'+i))+"@mergington.edu")
		require.NoError(t, err)
	}

	w := do(t, r, http.MethodPost, actionURL("Math Club", "signup", "late@mergington.edu"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "is full")
}

func TestUnexpectedErrorIsInternal(t *testing.T) {
	r := SetupRouter(context.Background(), newTestConfig(t), failingRegistry{}, nil)

	w := do(t, r, http.MethodPost, actionURL("Chess Club", "signup", "x@y.edu"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", detail(t, w))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(domain.NewActivityNotFound("x")))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.NewAlreadySignedUp("x", "e")))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.NewInvalidEmail("x", "", "email is required")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestClientTokenCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "activities", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Empty(t, w2.Result().Cookies(), "existing session should not be rewritten")
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	do(t, r, http.MethodPost, actionURL("Chess Club", "signup", "metrics@mergington.edu"))
	w := do(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "activities_registrations_total")
	assert.Contains(t, w.Body.String(), "activities_http_request_duration_seconds")
}
