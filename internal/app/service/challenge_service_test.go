package service

import (
	"context"
	"logicode/internal/app/seed"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fibonacciSolution = `function fibonacci(n) {
  if (n <= 0) return 0
  if (n === 1) return 1
  return fibonacci(n - 1) + fibonacci(n - 2)
}`

func TestGrade(t *testing.T) {
	expected := []string{"if (n <= 0) return 0", "return fibonacci(n - 1) + fibonacci(n - 2)"}
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"full solution", fibonacciSolution, true},
		{"single fragment is enough", "// if (n <= 0) return 0", true},
		{"unrelated code", "let contador = 0\nfor (let i = 0; i < n; i++) contador += i", false},
		{"case sensitive", "IF (N <= 0) RETURN 0", false},
		{"empty submission", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(expected, tt.code))
		})
	}
	assert.False(t, Grade(nil, fibonacciSolution))
	assert.True(t, Grade([]string{""}, "anything"))
}

func TestSubmitWrongSolutionChangesNothing(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)
	resp, err := e.auth.Login(ctx, LoginRequest{Email: seed.DemoEmail, Password: seed.DemoPassword})
	require.NoError(t, err)
	sess := resp.Session

	result, err := e.challenge.Submit(ctx, sess, "5", "for (let i = 0; i < 10; i++) { contador += i }")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, FailureOutput, result.Output)
	assert.False(t, result.Rewarded)

	stored, err := e.users.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 350, stored.XP)
	assert.Equal(t, 3, stored.Streak)
	assert.Equal(t, []string{"1", "2"}, stored.CompletedChallenges)
	assert.Equal(t, 350, sess.User.XP)
}

func TestSubmitRewardsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)
	sess := e.register(t, "Ana", "ana@x.com", "p1")

	first, err := e.challenge.Submit(ctx, sess, "5", fibonacciSolution)
	require.NoError(t, err)
	assert.True(t, first.Passed)
	assert.True(t, first.Rewarded)
	assert.Equal(t, 100, first.XPAwarded)
	assert.Equal(t, "El 6º número de Fibonacci es: 8", first.Output)
	require.NotNil(t, first.User)
	assert.Empty(t, first.User.Password)

	second, err := e.challenge.Submit(ctx, sess, "5", fibonacciSolution)
	require.NoError(t, err)
	assert.True(t, second.Passed)
	assert.False(t, second.Rewarded)
	assert.Zero(t, second.XPAwarded)

	for _, u := range []*model.User{&sess.User, mustCurrent(t, e), mustUser(t, e, sess.UserID())} {
		assert.Equal(t, 100, u.XP)
		assert.Equal(t, 1, u.Streak)
		assert.Equal(t, []string{"5"}, u.CompletedChallenges)
	}
}

func TestSubmitDefaultOutput(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	admin := e.adminSession(t)
	require.NoError(t, e.challenge.Create(ctx, admin, &model.Challenge{
		ID: "x", Title: "Hola", Difficulty: 1, XPReward: 10, ExpectedSolution: []string{"console.log"},
	}))

	result, err := e.challenge.Submit(ctx, admin, "hola", `console.log("hola")`)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, DefaultSuccessOutput, result.Output)
}

func TestViewMarksInProgress(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)
	sess := e.register(t, "Ana", "ana@x.com", "p1")

	c, err := e.challenge.View(ctx, sess, "busqueda-binaria")
	require.NoError(t, err)
	assert.Equal(t, "6", c.ID)
	assert.Equal(t, []string{"6"}, sess.User.InProgressChallenges)
	assert.Equal(t, []string{"6"}, mustUser(t, e, sess.UserID()).InProgressChallenges)

	_, err = e.challenge.View(ctx, sess, "6")
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, mustCurrent(t, e).InProgressChallenges)

	_, err = e.challenge.Submit(ctx, sess, "6", "return -1")
	require.NoError(t, err)
	_, err = e.challenge.View(ctx, sess, "6")
	require.NoError(t, err)
	assert.Empty(t, sess.User.InProgressChallenges, "completed challenges are not reopened")
	assert.Equal(t, []string{"6"}, sess.User.CompletedChallenges)

	_, err = e.challenge.View(ctx, sess, "99")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = e.challenge.View(ctx, nil, "6")
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestUpdateChallengeRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)
	user := e.register(t, "Ana", "ana@x.com", "p1")

	c, err := e.challenge.Get(ctx, "1")
	require.NoError(t, err)
	c.XPReward = 999

	assert.ErrorIs(t, e.challenge.Update(ctx, user, c), common.ErrForbidden)

	admin := e.adminSession(t)
	require.NoError(t, e.challenge.Update(ctx, admin, c))
	all, err := e.challenge.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, 999, all[0].XPReward)

	c.Difficulty = 9
	assert.ErrorIs(t, e.challenge.Update(ctx, admin, c), common.ErrValidation)
}

func mustCurrent(t *testing.T, e *env) *model.User {
	t.Helper()
	u, err := e.currentUser.Get(context.Background())
	require.NoError(t, err)
	return u
}

func mustUser(t *testing.T, e *env, id string) *model.User {
	t.Helper()
	u, err := e.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestStaleSessionDoesNotReclaimSignIn(t *testing.T) {
	ctx := context.Background()
	e := seeded(t)
	ana := e.register(t, "Ana", "ana@x.com", "p1")

	_, err := e.auth.Login(ctx, LoginRequest{Email: seed.DemoEmail, Password: seed.DemoPassword})
	require.NoError(t, err)

	result, err := e.challenge.Submit(ctx, ana, "5", fibonacciSolution)
	require.NoError(t, err)
	assert.True(t, result.Rewarded)
	_, err = e.challenge.View(ctx, ana, "6")
	require.NoError(t, err)

	assert.Equal(t, seed.DemoEmail, mustCurrent(t, e).Email)
	assert.Equal(t, 100, mustUser(t, e, ana.UserID()).XP, "progress is still stored for the user")
	_, err = e.auth.Resolve(ctx, ana.UserID())
	assert.ErrorIs(t, err, common.ErrNoSession)
}
