package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	assigndomain "github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/identity"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
)

type stubUserRepo struct {
	byID       map[uint]*user.User
	nextID     uint
	upsertErr  error
	lastUpsert *user.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[uint]*user.User{}}
}

func (r *stubUserRepo) FindBySubject(_ context.Context, subject string) (*user.User, error) {
	for _, u := range r.byID {
		if u.Subject == subject {
			return u, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	return r.byID[id], nil
}

func (r *stubUserRepo) FindByFilter(_ context.Context, filter user.Filter) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.byID {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *stubUserRepo) Upsert(_ context.Context, u *user.User) (*user.User, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	r.nextID++
	u.ID = r.nextID
	r.byID[u.ID] = u
	r.lastUpsert = u
	return u, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id uint, role user.Role) error {
	u, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.byID, id)
	return nil
}

type stubAssignRepo struct {
	rows map[string]*assigndomain.Assignment
}

func newStubAssignRepo() *stubAssignRepo {
	return &stubAssignRepo{rows: map[string]*assigndomain.Assignment{}}
}

func assignKey(userID uint, agentID string) string {
	return fmt.Sprintf("%d:%s", userID, agentID)
}

func (r *stubAssignRepo) Create(_ context.Context, a *assigndomain.Assignment) (*assigndomain.Assignment, error) {
	key := assignKey(a.UserID, a.AgentID)
	if _, ok := r.rows[key]; ok {
		return nil, assigndomain.ErrDuplicate
	}
	a.AssignedAt = time.Now()
	r.rows[key] = a
	return a, nil
}

func (r *stubAssignRepo) Delete(_ context.Context, userID uint, agentID string) error {
	key := assignKey(userID, agentID)
	if _, ok := r.rows[key]; !ok {
		return assigndomain.ErrNotFound
	}
	delete(r.rows, key)
	return nil
}

func (r *stubAssignRepo) ListByUser(_ context.Context, userID uint) ([]*assigndomain.Assignment, error) {
	var out []*assigndomain.Assignment
	for _, a := range r.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAssignRepo) Exists(_ context.Context, userID uint, agentID string) (bool, error) {
	_, ok := r.rows[assignKey(userID, agentID)]
	return ok, nil
}

type identityStub struct {
	created []string
	deleted []string
	failID  string
}

func (s *identityStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			var body struct {
				Email string `json:"email"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			s.created = append(s.created, body.Email)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "sub-" + body.Email, "email": body.Email})
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/auth/v1/admin/users/"):
			s.deleted = append(s.deleted, strings.TrimPrefix(r.URL.Path, "/auth/v1/admin/users/"))
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newAdminTestRouter(t *testing.T, userRepo *stubUserRepo, assignRepo *stubAssignRepo, ids *identityStub) *gin.Engine {
	t.Helper()
	server := httptest.NewServer(ids.handler())
	t.Cleanup(server.Close)

	accounts := identity.NewClient(server.URL, "service-key", 5*time.Second, zerolog.Nop())
	route := NewAdminRoute(
		user.NewService(userRepo),
		assigndomain.NewService(assignRepo),
		accounts,
		nil, // auditing disabled in tests
		zerolog.Nop(),
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	route.RegisterRouter(router.Group("/v1"))
	return router
}

func TestCreateUserProvisionsAccountAndProfile(t *testing.T) {
	userRepo := newStubUserRepo()
	ids := &identityStub{}
	router := newAdminTestRouter(t, userRepo, newStubAssignRepo(), ids)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/users",
		strings.NewReader(`{"email":"new@example.com","password":"s3cret-pass","full_name":"New User","role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(ids.created) != 1 || ids.created[0] != "new@example.com" {
		t.Errorf("expected identity account created, got %v", ids.created)
	}
	if userRepo.lastUpsert == nil || userRepo.lastUpsert.Role != user.RoleAdmin {
		t.Errorf("expected admin profile persisted, got %+v", userRepo.lastUpsert)
	}
	if userRepo.lastUpsert.Subject != "sub-new@example.com" {
		t.Errorf("profile subject does not match provider account id: %q", userRepo.lastUpsert.Subject)
	}
}

func TestCreateUserRollsBackAccountOnProfileFailure(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.upsertErr = fmt.Errorf("profile table unavailable")
	ids := &identityStub{}
	router := newAdminTestRouter(t, userRepo, newStubAssignRepo(), ids)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/users",
		strings.NewReader(`{"email":"doomed@example.com","password":"s3cret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if len(ids.deleted) != 1 || ids.deleted[0] != "sub-doomed@example.com" {
		t.Errorf("expected provider account rolled back, got %v", ids.deleted)
	}
}

func TestUpdateRole(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.byID[3] = &user.User{ID: 3, Subject: "sub-3", Email: "u@example.com", Role: user.RoleUser}
	userRepo.nextID = 3
	router := newAdminTestRouter(t, userRepo, newStubAssignRepo(), &identityStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/v1/admin/users/3/role",
		strings.NewReader(`{"role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if userRepo.byID[3].Role != user.RoleAdmin {
		t.Errorf("role not updated: %s", userRepo.byID[3].Role)
	}
}

func TestDeleteUserRemovesProfileAndAccount(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.byID[5] = &user.User{ID: 5, Subject: "sub-5", Email: "gone@example.com", Role: user.RoleUser}
	ids := &identityStub{}
	router := newAdminTestRouter(t, userRepo, newStubAssignRepo(), ids)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/admin/users/5", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if _, ok := userRepo.byID[5]; ok {
		t.Error("profile row still present")
	}
	if len(ids.deleted) != 1 || ids.deleted[0] != "sub-5" {
		t.Errorf("expected provider account removed, got %v", ids.deleted)
	}
}

func TestAssignAgentDuplicate(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.byID[2] = &user.User{ID: 2, Subject: "sub-2", Email: "u@example.com", Role: user.RoleUser}
	assignRepo := newStubAssignRepo()
	router := newAdminTestRouter(t, userRepo, assignRepo, &identityStub{})

	body := `{"agent_id":"agent-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/users/2/assignments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/admin/users/2/assignments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on duplicate grant, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/v1/admin/users/2/assignments/agent-1", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on unassign, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/users/2/assignments", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 listing assignments, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "agent-1") {
		t.Errorf("expected agent-1 gone after unassign, got %s", w.Body.String())
	}
}

func TestListUsersRoleFilter(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.byID[1] = &user.User{ID: 1, Subject: "s1", Email: "a@example.com", Role: user.RoleAdmin}
	userRepo.byID[2] = &user.User{ID: 2, Subject: "s2", Email: "b@example.com", Role: user.RoleUser}
	router := newAdminTestRouter(t, userRepo, newStubAssignRepo(), &identityStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users?role=admin", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp responses.UserListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].Role != "admin" {
		t.Errorf("expected only the admin profile, got %+v", resp.Users)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/users?role=banana", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad role filter, got %d", w.Code)
	}
}
