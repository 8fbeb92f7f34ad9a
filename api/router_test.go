package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/config"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/db"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m,
		// started at init by genai's opencensus dependency
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

// staticModel always replies with the same raw text.
type staticModel struct {
	reply string
	calls int
}

func (m *staticModel) Complete(context.Context, string) (string, error) {
	m.calls++
	return m.reply, nil
}

func (m *staticModel) Name() string { return "static" }

type testServer struct {
	router *gin.Engine
	model  *staticModel
	store  *db.PatternStore
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()

	model := &staticModel{reply: `{"answer":"Yes","confidence":0.9,"reasoning":"Citizen","intent":"workAuthorization.authorizedUS"}`}
	dir := t.TempDir()
	store := db.NewPatternStore(
		db.NewJSONFileBackend(filepath.Join(dir, "patterns.json")),
		services.NewSharingPolicy(config.DefaultShareableIntents, config.DefaultPatternOnlyIntents),
		0.7,
		nil,
	)
	answers := services.NewAnswerService(store, services.NewPredictor(model, time.Second, nil), 0.95, 0.70, nil)

	router := NewRouter(RouterConfig{
		Predict:     NewPredictHandler(answers, nil),
		Patterns:    NewPatternHandler(store, nil),
		UserData:    NewUserDataHandler(db.NewFileProfileRepository(filepath.Join(dir, "users")), nil),
		RateLimiter: limiter,
	})
	return &testServer{router: router, model: model, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ai-service", body["service"])
	assert.Equal(t, ServiceVersion, body["version"])
}

func TestPredictServesRememberedAnswer(t *testing.T) {
	s := newTestServer(t, nil)
	req := map[string]any{
		"question":    "Are you legally authorized to work in the United States?",
		"options":     []string{"Yes", "No"},
		"fieldType":   "radio",
		"userProfile": map[string]any{"firstName": "Jane", "yearsExperience": 5},
	}

	code, first := s.do(t, http.MethodPost, "/predict", req)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Yes", first["answer"])
	assert.Equal(t, 0.9, first["confidence"])
	assert.Equal(t, "workAuthorization.authorizedUS", first["intent"])
	assert.Equal(t, false, first["isNewIntent"])
	assert.Contains(t, first, "suggestedIntentName")
	assert.Nil(t, first["suggestedIntentName"])

	code, second := s.do(t, http.MethodPost, "/predict", req)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Yes", second["answer"])
	assert.Equal(t, 0.95, second["confidence"])
	assert.Equal(t, services.ReasoningFromMemory, second["reasoning"])

	assert.Equal(t, 1, s.model.calls)
}

func TestPredictAcceptsLooselyTypedProfile(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := s.do(t, http.MethodPost, "/predict", `{
		"question": "Are you legally authorized to work in the United States?",
		"options": ["Yes", "No"],
		"fieldType": "radio",
		"userProfile": {"firstName": "Ana", "phone": 5551234567, "city": null}
	}`)

	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Yes", body["answer"])
	assert.Equal(t, 1, s.model.calls)
}

func TestPredictRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body any
	}{
		{"Malformed JSON", `{"question":`},
		{"Blank question", map[string]any{"question": "   "}},
		{"Markup only", map[string]any{"question": "<span></span>"}},
		{"Blank option", map[string]any{"question": "Pick one", "options": []string{""}}},
		{"Whitespace option", map[string]any{"question": "Pick one", "options": []string{"Yes", "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := s.do(t, http.MethodPost, "/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Equal(t, 0, s.model.calls)
}

func TestParseResume(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := s.do(t, http.MethodPost, "/parse-resume", `{}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Resume parsing not yet implemented", body["message"])
}

func TestPatternEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	upload := map[string]any{"pattern": map[string]any{
		"questionPattern": "What is your gender?",
		"intent":          "eeo.gender",
		"fieldType":       "select",
		"confidence":      0.9,
		"answerMappings": []map[string]any{
			{"canonicalValue": "Female", "variants": []string{"Female"}, "contextOptions": []string{"Male", "Female"}},
		},
	}}
	code, body := s.do(t, http.MethodPost, "/api/patterns/upload", upload)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Pattern uploaded successfully", body["message"])

	code, body = s.do(t, http.MethodPost, "/api/patterns/upload", map[string]any{"pattern": map[string]any{
		"questionPattern": "Why us?",
		"intent":          "experience.whyFit",
	}})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Pattern rejected", body["error"])

	code, body = s.do(t, http.MethodPost, "/api/patterns/upload", map[string]any{"pattern": map[string]any{"intent": "eeo.gender"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, body = s.do(t, http.MethodGet, "/api/patterns/search?q=what%20is%20your%20GENDER%3F", nil)
	require.Equal(t, http.StatusOK, code)
	matches := body["matches"].([]any)
	require.Len(t, matches, 1)
	match := matches[0].(map[string]any)
	assert.Equal(t, "manual-upload", match["source"])
	assert.Equal(t, "what is your gender?", match["questionPattern"])

	code, body = s.do(t, http.MethodGet, "/api/patterns/search?q=salary", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["matches"])

	code, body = s.do(t, http.MethodGet, "/api/patterns/search", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Query required", body["error"])

	code, body = s.do(t, http.MethodGet, "/api/patterns/stats", nil)
	require.Equal(t, http.StatusOK, code)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["totalPatterns"])
	assert.Equal(t, map[string]any{"eeo.gender": float64(1)}, stats["intentBreakdown"])

	code, body = s.do(t, http.MethodGet, "/api/patterns/sync?since=2020-01-01T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["patterns"], 1)
}

func TestUserDataEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := s.do(t, http.MethodPost, "/api/user-data/save", map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, body = s.do(t, http.MethodGet, "/api/user-data/jane@example.com", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Profile not found", body["error"])

	code, body = s.do(t, http.MethodPost, "/api/user-data/save", map[string]any{
		"email":        "jane@example.com",
		"profile_data": map[string]any{"firstName": "Jane", "portfolio": "https://jane.dev"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Profile saved", body["message"])

	code, body = s.do(t, http.MethodGet, "/api/user-data/jane@example.com", nil)
	require.Equal(t, http.StatusOK, code)
	profile := body["profile"].(map[string]any)
	data := profile["profile_data"].(map[string]any)
	assert.Equal(t, "Jane", data["firstName"])
	assert.Equal(t, "https://jane.dev", data["portfolio"])

	code, _ = s.do(t, http.MethodGet, "/api/user-data/not-an-email", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/user-data/save", `{"email":"ana@example.com","profile_data":{"phone":5551234567}}`)
	require.Equal(t, http.StatusOK, code)

	code, body = s.do(t, http.MethodGet, "/api/user-data/ana@example.com", nil)
	require.Equal(t, http.StatusOK, code)
	data = body["profile"].(map[string]any)["profile_data"].(map[string]any)
	assert.Equal(t, float64(5551234567), data["phone"])
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	limiter := NewRateLimiter(ctx, 60, 2, utils.NewNopLogger())
	s := newTestServer(t, limiter)

	for i := 0; i < 2; i++ {
		code, _ := s.do(t, http.MethodGet, "/api/patterns/stats", nil)
		assert.Equal(t, http.StatusOK, code)
	}

	code, body := s.do(t, http.MethodGet, "/api/patterns/stats", nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, false, body["success"])

	// health is outside the limited group
	code, _ = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRateLimiterRefills(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	limiter := NewRateLimiter(ctx, 60, 1, utils.NewNopLogger())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))

	now = now.Add(bucketIdleTTL + time.Second)
	limiter.cleanup()
	_, ok := limiter.buckets.Load("10.0.0.1")
	assert.False(t, ok)
}

func TestRecovery(t *testing.T) {
	s := newTestServer(t, nil)
	s.router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	code, body := s.do(t, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMCPMount(t *testing.T) {
	var gotPath string
	router := NewRouter(RouterConfig{MCP: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp/", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/mcp/", gotPath)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPost, "/predict", map[string]any{"question": "Are you authorized to work in the US?", "options": []string{"Yes", "No"}})

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ai_service_model_latency_seconds")
}
