package api

import (
	"bytes"
	"context"
	"encoding/json"
	"logicode/internal/app/seed"
	"logicode/internal/app/service"
	"logicode/internal/common/security"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"logicode/internal/store"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	users   repository.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	log := zaptest.NewLogger(t)
	s := store.NewAccessor(store.NewMemoryKV(), log)
	users := repository.NewKVUserRepository(s, log)
	challenges := repository.NewKVChallengeRepository(s, log)
	questions := repository.NewKVQuestionRepository(s, log)
	answers := repository.NewKVAnswerRepository(s, log)
	current := repository.NewKVCurrentUserRepository(s, log)

	seeder := seed.New(s, users, challenges, seed.Options{AdminEmail: "admin@x.com", AdminPassword: "root"}, log)
	require.NoError(t, seeder.Seed(context.Background()))

	tokens := security.NewTokenIssuer([]byte("test-secret"), time.Hour)
	h := NewRouter(
		RouterOptions{Tokens: tokens, Logger: log, AuthRateLimitPerMinute: 100},
		service.NewAuthService(users, current, tokens, false, log),
		service.NewChallengeService(challenges, users, current, log),
		service.NewQuestionService(questions, answers, log),
		service.NewAdminService(users, questions, s, seeder, log),
		service.NewDashboardService(challenges, users),
	)
	return &testServer{t: t, handler: h, users: users}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(email, password string) string {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", service.LoginRequest{Email: email, Password: password})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRegisterAndSolveFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", service.RegisterRequest{
		Name: "Ana", Email: "ana@x.com", Password: "p1", ConfirmPassword: "p1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), `"password"`)
	assert.NotEmpty(t, rec.Result().Cookies())

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", "", service.RegisterRequest{
		Name: "Ana", Email: "ana@x.com", Password: "p1", ConfirmPassword: "p1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	token := ts.login("ana@x.com", "p1")

	rec = ts.do(http.MethodGet, "/api/v1/challenges/fibonacci-recursivo", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/v1/challenges/5/submit", token, map[string]string{"code": "contador += i"})
	require.Equal(t, http.StatusOK, rec.Code)
	failed := decode[model.GradeResult](t, rec)
	assert.False(t, failed.Passed)

	rec = ts.do(http.MethodPost, "/api/v1/challenges/5/submit", token, map[string]string{"code": "return fibonacci(n - 1) + fibonacci(n - 2)"})
	require.Equal(t, http.StatusOK, rec.Code)
	passed := decode[model.GradeResult](t, rec)
	assert.True(t, passed.Passed)
	assert.True(t, passed.Rewarded)

	rec = ts.do(http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[model.Dashboard](t, rec)
	assert.Equal(t, 100, d.User.XP)
	assert.Len(t, d.Completed, 1)

	rec = ts.do(http.MethodGet, "/api/v1/leaderboard?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[[]model.LeaderboardEntry](t, rec)
	require.Len(t, board, 1)
	assert.Equal(t, "Usuario Demo", board[0].Name)

	rec = ts.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(seed.DemoEmail, seed.DemoPassword)

	rec := ts.do(http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, seed.DemoEmail, decode[model.User](t, rec).Email)
}

func TestLoginErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", service.LoginRequest{Email: seed.DemoEmail, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "", service.LoginRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerationFlow(t *testing.T) {
	ts := newTestServer(t)
	userToken := ts.login(seed.DemoEmail, seed.DemoPassword)

	rec := ts.do(http.MethodPost, "/api/v1/questions", userToken, service.SubmitQuestionRequest{
		Title: "¿Cómo invierto un array?", Code: "arr.reverse()", Tags: []string{"arrays, javascript"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	q := decode[model.Question](t, rec)
	assert.Equal(t, model.StatusPending, q.Status)

	rec = ts.do(http.MethodGet, "/api/v1/questions", "", nil)
	assert.Empty(t, decode[[]model.Question](t, rec))
	rec = ts.do(http.MethodGet, "/api/v1/questions/"+q.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = ts.do(http.MethodGet, "/api/v1/questions/"+q.ID, userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "authors see their pending questions")

	rec = ts.do(http.MethodPost, "/api/v1/admin/questions/"+q.ID+"/approve", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := ts.login("admin@x.com", "root")
	for _, action := range []string{"approve", "reject", "approve"} {
		rec = ts.do(http.MethodPost, "/api/v1/admin/questions/"+q.ID+"/"+action, adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, action)
	}
	assert.Equal(t, model.StatusApproved, decode[model.Question](t, rec).Status)

	rec = ts.do(http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.ModerationStats](t, rec)
	assert.Equal(t, model.ModerationStats{Approved: 1, Users: 2}, stats)

	rec = ts.do(http.MethodGet, "/api/v1/questions?tag=JavaScript", "", nil)
	assert.Len(t, decode[[]model.Question](t, rec), 1)
}

func TestAnswerAndVoteRequireCurrentSession(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login("admin@x.com", "root")

	rec := ts.do(http.MethodPost, "/api/v1/questions", adminToken, service.SubmitQuestionRequest{Title: "Q", Code: "c"})
	require.Equal(t, http.StatusCreated, rec.Code)
	q := decode[model.Question](t, rec)
	assert.Equal(t, model.StatusApproved, q.Status)

	rec = ts.do(http.MethodPost, "/api/v1/questions/"+q.ID+"/answers", adminToken, service.SubmitAnswerRequest{Content: "A"})
	require.Equal(t, http.StatusCreated, rec.Code)
	a := decode[model.Answer](t, rec)

	rec = ts.do(http.MethodPost, "/api/v1/answers/"+a.ID+"/vote", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[model.Answer](t, rec).Votes)

	rec = ts.do(http.MethodPost, "/api/v1/answers/"+a.ID+"/vote", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ts.login(seed.DemoEmail, seed.DemoPassword)
	rec = ts.do(http.MethodPost, "/api/v1/answers/"+a.ID+"/vote", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "a later login replaces the signed-in user")
}

func TestAdminReset(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login("admin@x.com", "root")

	rec := ts.do(http.MethodDelete, "/api/v1/admin/users/1", adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/reset", adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	users, err := ts.users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2, "reset reseeds the demo and admin users")

	rec = ts.do(http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "reset signs everybody out")
}
