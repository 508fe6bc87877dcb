package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/agentplatform"
)

type stubAssignmentRepo struct {
	assigned map[uint][]string
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	r.assigned[a.UserID] = append(r.assigned[a.UserID], a.AgentID)
	return a, nil
}

func (r *stubAssignmentRepo) Delete(_ context.Context, _ uint, _ string) error {
	return nil
}

func (r *stubAssignmentRepo) ListByUser(_ context.Context, userID uint) ([]*assignment.Assignment, error) {
	var out []*assignment.Assignment
	for _, agentID := range r.assigned[userID] {
		out = append(out, &assignment.Assignment{UserID: userID, AgentID: agentID})
	}
	return out, nil
}

func (r *stubAssignmentRepo) Exists(_ context.Context, userID uint, agentID string) (bool, error) {
	for _, id := range r.assigned[userID] {
		if id == agentID {
			return true, nil
		}
	}
	return false, nil
}

func newAgentTestRouter(t *testing.T, upstream http.HandlerFunc, profile *user.User, assigned map[uint][]string) *gin.Engine {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	platform := agentplatform.NewClient(server.URL, "test-key", 5*time.Second, zerolog.Nop())
	assignments := assignment.NewService(&stubAssignmentRepo{assigned: assigned})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("profile", profile)
		c.Next()
	})
	NewAgentRoute(platform, assignments).RegisterRouter(router.Group("/v1"))
	return router
}

func TestQueryAgentFallbackOnUpstream404(t *testing.T) {
	admin := &user.User{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin}
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, admin, map[uint][]string{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/agents/agent-gone/query",
		strings.NewReader(`{"query":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["answer"] != QueryFallbackAnswer {
		t.Errorf("expected fallback answer, got %q", body["answer"])
	}
}

func TestQueryAgentPassesThroughUpstreamAnswer(t *testing.T) {
	admin := &user.User{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin}
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("upstream saw authorization %q", got)
		}
		if r.URL.Path != "/agents/agent-1/query" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		var body struct {
			Query          string `json:"query"`
			ConversationID string `json:"conversationId"`
			Streaming      bool   `json:"streaming"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode upstream body: %v", err)
		}
		if body.Query != "meaning of life" || body.ConversationID != "conv-9" || !body.Streaming {
			t.Errorf("expected query fields forwarded verbatim, got %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"42"}`))
	}, admin, map[uint][]string{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/agents/agent-1/query",
		strings.NewReader(`{"query":"meaning of life","conversationId":"conv-9","streaming":true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"answer":"42"`) {
		t.Errorf("expected upstream body passed through, got %s", w.Body.String())
	}
}

func TestListAgentsFiltersForRegularUser(t *testing.T) {
	regular := &user.User{ID: 7, Email: "user@example.com", Role: user.RoleUser}
	upstreamAgents := `[{"id":"agent-1","name":"First"},{"id":"agent-2","name":"Second"},{"id":"agent-3","name":"Third"}]`
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(upstreamAgents))
	}, regular, map[uint][]string{7: {"agent-2"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var agents []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &agents); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(agents) != 1 || agents[0]["id"] != "agent-2" {
		t.Errorf("expected only assigned agent, got %v", agents)
	}
}

func TestListAgentsAdminSeesEverything(t *testing.T) {
	admin := &user.User{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin}
	upstreamAgents := `[{"id":"agent-1"},{"id":"agent-2"}]`
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(upstreamAgents))
	}, admin, map[uint][]string{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var agents []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &agents); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(agents) != 2 {
		t.Errorf("expected unfiltered list, got %v", agents)
	}
}

func TestGetAgentForbiddenWhenNotAssigned(t *testing.T) {
	regular := &user.User{ID: 7, Email: "user@example.com", Role: user.RoleUser}
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for a forbidden agent")
	}, regular, map[uint][]string{7: {"agent-2"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/agents/agent-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestListAgentsUpstreamErrorPassedThrough(t *testing.T) {
	admin := &user.User{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin}
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":"rate limited"}`))
	}, admin, map[uint][]string{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected upstream 429 passed through, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "rate limited") {
		t.Errorf("expected upstream body passed through, got %s", w.Body.String())
	}
}

func TestCreateChatSessionForwardsAgentID(t *testing.T) {
	regular := &user.User{ID: 7, Email: "user@example.com", Role: user.RoleUser}
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/sessions" {
			t.Errorf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode upstream body: %v", err)
		}
		if body["agent_id"] != "agent-2" {
			t.Errorf("expected agent_id agent-2, got %q", body["agent_id"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"sess-1"}`))
	}, regular, map[uint][]string{7: {"agent-2"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/agents/agent-2/chat-sessions", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "sess-1") {
		t.Errorf("expected session body passed through, got %s", w.Body.String())
	}
}

func TestUpdateAgentForwardsDefinition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/agents/agent-1" {
			t.Errorf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"agent-1","name":"Renamed"}`))
	}))
	t.Cleanup(server.Close)

	platform := agentplatform.NewClient(server.URL, "test-key", 5*time.Second, zerolog.Nop())
	assignments := assignment.NewService(&stubAssignmentRepo{assigned: map[uint][]string{}})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAgentRoute(platform, assignments).RegisterAdminRouter(router.Group("/v1"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/agents/agent-1",
		strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Renamed") {
		t.Errorf("expected updated agent passed through, got %s", w.Body.String())
	}
}

func TestGetAgentWrapsNonJSONUpstreamBody(t *testing.T) {
	admin := &user.User{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin}
	router := newAgentTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain text export"))
	}, admin, map[uint][]string{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/agents/agent-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON envelope, got %s: %v", w.Body.String(), err)
	}
	if body["data"] != "plain text export" {
		t.Errorf("expected opaque body wrapped under data, got %q", body["data"])
	}
}
