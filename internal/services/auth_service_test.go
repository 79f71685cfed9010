package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nutriai/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initData(t *testing.T, authDate time.Time, user string) string {
	t.Helper()
	v := url.Values{}
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	v.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	v.Set("user", user)
	return SignInitData(v, testBotToken)
}

const aliceJSON = `{"id":4242,"first_name":"Alice","username":"alice"}`

func TestTelegramSignInCreatesProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.TelegramSignIn(ctx, initData(t, testNow.Add(-time.Minute), aliceJSON))
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "4242", resp.User.TelegramID)
	assert.Equal(t, "alice", *resp.User.Username)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (any, error) {
		return []byte(env.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return env.now }))
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "4242", claims["tg_id"])

	again, err := env.auth.TelegramSignIn(ctx, initData(t, testNow, `{"id":4242,"first_name":"Alice","username":"alice_new"}`))
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
	assert.Equal(t, "alice_new", *again.User.Username)
}

func TestTelegramSignInRejects(t *testing.T) {
	tests := []struct {
		name    string
		data    func(t *testing.T) string
		wantErr error
	}{
		{"tampered", func(t *testing.T) string {
			v, _ := url.ParseQuery(initData(t, testNow, aliceJSON))
			v.Set("user", `{"id":1,"username":"mallory"}`)
			return v.Encode()
		}, ErrInitDataInvalid},
		{"missing hash", func(t *testing.T) string {
			return "auth_date=1&user=%7B%22id%22%3A1%7D"
		}, ErrInitDataInvalid},
		{"expired", func(t *testing.T) string {
			return initData(t, testNow.Add(-25*time.Hour), aliceJSON)
		}, ErrInitDataExpired},
		{"no user id", func(t *testing.T) string {
			return initData(t, testNow, `{"username":"anon"}`)
		}, ErrInitDataInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.auth.TelegramSignIn(context.Background(), tt.data(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTelegramSignInNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.TelegramBotToken = ""
	_, err := env.auth.TelegramSignIn(context.Background(), initData(t, testNow, aliceJSON))
	assert.ErrorIs(t, err, ErrAuthNotConfigured)
}

func TestVerifyInitDataFlatFields(t *testing.T) {
	v := url.Values{}
	v.Set("auth_date", strconv.FormatInt(testNow.Unix(), 10))
	v.Set("id", "77")
	v.Set("username", "flat")

	id, err := VerifyInitData(SignInitData(v, testBotToken), testBotToken, time.Hour, testNow)
	require.NoError(t, err)
	assert.Equal(t, "77", id.ID)
	assert.Equal(t, "flat", id.Username)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first, err := env.auth.TelegramSignIn(ctx, initData(t, testNow, aliceJSON))
	require.NoError(t, err)

	second, err := env.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.User.ID, second.User.ID)

	_, err = env.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "old token is revoked")

	_, err = env.auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshConcurrentReuse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first, err := env.auth.TelegramSignIn(ctx, initData(t, testNow, aliceJSON))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		ok       atomic.Int32
		rejected atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.auth.Refresh(ctx, first.RefreshToken)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrInvalidToken):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load(), "a refresh token rotates once")
	assert.Equal(t, int32(7), rejected.Load())
}

func TestRefreshExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp, err := env.auth.TelegramSignIn(ctx, initData(t, testNow, aliceJSON))
	require.NoError(t, err)

	env.now = testNow.Add(31 * 24 * time.Hour)
	_, err = env.auth.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp, err := env.auth.TelegramSignIn(ctx, initData(t, testNow, aliceJSON))
	require.NoError(t, err)

	other := env.seedUser(t, false)
	require.NoError(t, env.auth.Logout(ctx, other.ID, resp.RefreshToken))
	_, err = env.store.GetActiveRefreshToken(ctx, hashToken(resp.RefreshToken))
	require.NoError(t, err, "someone else's logout leaves the token alone")

	require.NoError(t, env.auth.Logout(ctx, resp.User.ID, resp.RefreshToken))
	_, err = env.auth.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.ErrorIs(t, env.auth.Logout(ctx, resp.User.ID, ""), ErrValidation)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp, err := env.auth.TelegramSignIn(ctx, initData(t, testNow, aliceJSON))
	require.NoError(t, err)
	_, err = env.meals.Create(ctx, resp.User.ID, lunch("Toast", 200))
	require.NoError(t, err)

	require.NoError(t, env.auth.DeleteAccount(ctx, resp.User.ID))

	_, err = env.store.GetProfile(ctx, resp.User.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.profiles.Get(ctx, resp.User.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.auth.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, env.auth.DeleteAccount(ctx, resp.User.ID), ErrNotFound)
}
