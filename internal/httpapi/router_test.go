package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/suPer8Hu/account-pilot/internal/ai"
	"github.com/suPer8Hu/account-pilot/internal/assist"
	"github.com/suPer8Hu/account-pilot/internal/httpapi/handlers"
	"github.com/suPer8Hu/account-pilot/internal/store"
)

type fixedProvider struct {
	response string
	err      error
	calls    int
}

func (p *fixedProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p.calls++
	return p.response, p.err
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishJob(ctx context.Context, jobID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, jobID)
	return nil
}

func newTestRouter(t *testing.T, prov ai.Provider, jobs handlers.JobPublisher) (*gin.Engine, *store.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := store.NewRepo(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	retry := ai.DefaultRetryPolicy()
	retry.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	svc := assist.NewService(repo, prov, nil, nil, retry, 10)

	h := handlers.NewHandler(repo, svc, jobs, "test")
	return NewRouter(h), repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, body := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if body["status"] != "healthy" || body["version"] != "test" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestChat_MissingPrompt(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/chat", map[string]any{"session_id": "s1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if body["error"] != "Prompt is required" {
		t.Fatalf("unexpected error %v", body["error"])
	}
}

func TestChat_AssignsSessionID(t *testing.T) {
	prov := &fixedProvider{response: `{"reply":"Done.","suggestions":["x"]}`}
	r, _ := newTestRouter(t, prov, nil)

	w, body := doJSON(t, r, http.MethodPost, "/chat", map[string]any{"prompt": "Research Acme"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %v", w.Code, body)
	}
	sid, _ := body["session_id"].(string)
	if len(sid) != 26 {
		t.Fatalf("expected generated ULID session id, got %q", sid)
	}
	if body["reply"] != "Done." {
		t.Fatalf("unexpected reply %v", body["reply"])
	}
}

func TestChat_ClarificationKeepsCompanyKey(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/chat", map[string]any{"prompt": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if body["needs_clarification"] != true {
		t.Fatalf("expected clarification result: %v", body)
	}
	company, ok := body["company"].(map[string]any)
	if !ok {
		t.Fatalf("company key must be present as an object: %v", body)
	}
	if len(company) != 0 {
		t.Fatalf("expected empty company object, got %v", company)
	}
}

func TestChat_KeepsProvidedSessionID(t *testing.T) {
	prov := &fixedProvider{response: `{"reply":"Done.","suggestions":["x"]}`}
	r, repo := newTestRouter(t, prov, nil)

	_, body := doJSON(t, r, http.MethodPost, "/chat", map[string]any{
		"prompt":     "Research Acme",
		"session_id": "api-keep-session",
	})
	if body["session_id"] != "api-keep-session" {
		t.Fatalf("session id rewritten: %v", body["session_id"])
	}

	hist, err := repo.History(context.Background(), "api-keep-session", 10)
	if err != nil || len(hist) != 2 {
		t.Fatalf("turns not stored under session: %d (err %v)", len(hist), err)
	}
}

func TestGenerateBestPlan_RequiresTwoCompanies(t *testing.T) {
	prov := &fixedProvider{response: `{"reply":"x","bestPlan":{"name":"X"}}`}
	r, _ := newTestRouter(t, prov, nil)

	w, body := doJSON(t, r, http.MethodPost, "/generate-best-plan", map[string]any{
		"companies": []map[string]any{{"name": "OnlyOne"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if body["error"] != "At least 2 companies required" {
		t.Fatalf("unexpected error %v", body["error"])
	}
	if prov.calls != 0 {
		t.Fatalf("generation must not be called below the threshold")
	}
}

func TestGenerateBestPlan_FailureFallsBackToFirstCompany(t *testing.T) {
	prov := &fixedProvider{err: errors.New("connection refused")}
	r, _ := newTestRouter(t, prov, nil)

	w, body := doJSON(t, r, http.MethodPost, "/generate-best-plan", map[string]any{
		"companies": []map[string]any{{"name": "First"}, {"name": "Second"}},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", w.Code)
	}
	plan, _ := body["bestPlan"].(map[string]any)
	if plan["name"] != "First" {
		t.Fatalf("fallback plan should be the first company: %v", body)
	}
}

func TestChatAsync_DisabledWithoutPublisher(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, _ := doJSON(t, r, http.MethodPost, "/chat/async", map[string]any{"prompt": "Research Acme"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", w.Code)
	}
}

func TestChatAsync_EnqueuesJob(t *testing.T) {
	pub := &fakePublisher{}
	r, repo := newTestRouter(t, &fixedProvider{}, pub)

	w, body := doJSON(t, r, http.MethodPost, "/chat/async", map[string]any{"prompt": "Research Acme"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %v", w.Code, body)
	}
	jobID, _ := body["job_id"].(string)
	if len(jobID) != 26 {
		t.Fatalf("expected ULID job id, got %q", jobID)
	}
	if len(pub.published) != 1 || pub.published[0] != jobID {
		t.Fatalf("job not published: %v", pub.published)
	}

	job, err := repo.GetJobByID(context.Background(), jobID)
	if err != nil {
		t.Fatalf("job row missing: %v", err)
	}
	if job.Status != store.JobQueued {
		t.Fatalf("expected queued, got %s", job.Status)
	}

	// Poll endpoint reflects the row.
	w, body = doJSON(t, r, http.MethodGet, "/jobs/"+jobID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	jobView, _ := body["job"].(map[string]any)
	if jobView["status"] != "queued" {
		t.Fatalf("unexpected job view %v", jobView)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, _ := doJSON(t, r, http.MethodGet, "/jobs/01XXXXXXXXXXXXXXXXXXXXXXXX", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/validate", map[string]any{"prompt": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if body["is_valid"] != false {
		t.Fatalf("short prompt should be invalid: %v", body)
	}
	if body["message"] != "Your request is very brief." {
		t.Fatalf("unexpected message %v", body["message"])
	}

	_, body = doJSON(t, r, http.MethodPost, "/validate", map[string]any{"prompt": "Research Microsoft"})
	if body["is_valid"] != true {
		t.Fatalf("expected valid: %v", body)
	}
	if sugg, ok := body["suggestions"].([]any); !ok || len(sugg) != 0 {
		t.Fatalf("valid prompt should carry empty suggestions array: %v", body["suggestions"])
	}
}

func TestClearConversation_RequiresSessionID(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/conversation/clear", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if body["error"] != "session_id is required" {
		t.Fatalf("unexpected error %v", body["error"])
	}
}

func TestGetConversation(t *testing.T) {
	prov := &fixedProvider{response: `{"reply":"Done.","company":{"name":"Acme"},"suggestions":["x"]}`}
	r, _ := newTestRouter(t, prov, nil)

	doJSON(t, r, http.MethodPost, "/chat", map[string]any{
		"prompt":     "Research Acme",
		"session_id": "api-conv-session",
	})

	w, body := doJSON(t, r, http.MethodGet, "/conversation/api-conv-session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	hist, _ := body["history"].([]any)
	if len(hist) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(hist))
	}
	info, _ := body["session_info"].(map[string]any)
	if info["interaction_count"] != float64(1) {
		t.Fatalf("unexpected session info %v", info)
	}
	summary, _ := body["summary"].(string)
	if summary == "" {
		t.Fatalf("summary missing")
	}
}

func TestPreferencesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, _ := doJSON(t, r, http.MethodPost, "/preferences", map[string]any{
		"session_id":  "api-prefs",
		"preferences": map[string]string{"verbosity": "detailed"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	w, body := doJSON(t, r, http.MethodPost, "/preferences", map[string]any{
		"preferences": map[string]string{"verbosity": "detailed"},
	})
	if w.Code != http.StatusBadRequest || body["error"] != "session_id is required" {
		t.Fatalf("missing session_id: status %d body %v", w.Code, body)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, body := doJSON(t, r, http.MethodGet, "/account/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
	if body["error"] != "Not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t, &fixedProvider{}, nil)

	w, body := doJSON(t, r, http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
	if body["error"] != "route not found" {
		t.Fatalf("unexpected body %v", body)
	}
}
