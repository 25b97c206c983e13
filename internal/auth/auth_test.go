package auth_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-repurposer/internal/auth"
	"podcast-repurposer/internal/models"
)

type fakeUsers struct {
	upserted   []string
	telegramID int64
	fullName   string
}

func (f *fakeUsers) UpsertUser(ctx context.Context, id string, email string) (*models.User, error) {
	f.upserted = append(f.upserted, id+"|"+email)
	return &models.User{ID: id, Email: &email, Plan: "trial", TokensRemaining: 3}, nil
}

func (f *fakeUsers) UpsertTelegramUser(ctx context.Context, telegramID int64, fullName string) (*models.User, error) {
	f.telegramID, f.fullName = telegramID, fullName
	return &models.User{ID: "tg-user", TelegramID: &telegramID, Plan: "trial"}, nil
}

func TestSupabaseVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/user") || r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"msg":"invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"5b0c1f5e-8a7e-4d7c-9a53-3a1f0f0b6c11","aud":"authenticated","email":"host@example.com"}`))
	}))
	defer srv.Close()

	client := gotrue.New("proj", "anon-key").WithCustomGoTrueURL(srv.URL)
	users := &fakeUsers{}
	v := auth.NewSupabaseVerifier(client, users)

	t.Run("valid token", func(t *testing.T) {
		user, err := v.Verify(context.Background(), "good-token")

		require.NoError(t, err)
		assert.Equal(t, "5b0c1f5e-8a7e-4d7c-9a53-3a1f0f0b6c11", user.ID)
		assert.Equal(t, []string{"5b0c1f5e-8a7e-4d7c-9a53-3a1f0f0b6c11|host@example.com"}, users.upserted)
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "bad-token")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

// signInitData builds init data the way Telegram signs it for a Mini App.
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	q := url.Values{}
	for k, v := range fields {
		q.Set(k, v)
	}
	q.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return q.Encode()
}

func TestTelegramVerifier(t *testing.T) {
	const botToken = "123456:test-token"
	fields := map[string]string{
		"query_id":  "AAHdF614AAAAAN0Xrhom_pA",
		"user":      `{"id":123,"first_name":"Test","last_name":"User","username":"testuser","language_code":"en"}`,
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	}
	valid := signInitData(t, botToken, fields)

	t.Run("valid init data", func(t *testing.T) {
		users := &fakeUsers{}
		v := auth.NewTelegramVerifier(botToken, time.Hour, users)

		user, err := v.Verify(context.Background(), valid)

		require.NoError(t, err)
		assert.Equal(t, "tg-user", user.ID)
		assert.Equal(t, int64(123), users.telegramID)
		assert.Equal(t, "Test User", users.fullName)
	})

	t.Run("wrong bot token", func(t *testing.T) {
		v := auth.NewTelegramVerifier("999:other", 0, &fakeUsers{})

		_, err := v.Verify(context.Background(), valid)

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("tampered data", func(t *testing.T) {
		v := auth.NewTelegramVerifier(botToken, 0, &fakeUsers{})

		_, err := v.Verify(context.Background(), strings.Replace(valid, "testuser", "mallory", 1))

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("not configured", func(t *testing.T) {
		v := auth.NewTelegramVerifier("", 0, &fakeUsers{})

		_, err := v.Verify(context.Background(), valid)

		assert.ErrorIs(t, err, auth.ErrMissingConfig)
	})

	t.Run("username fallback", func(t *testing.T) {
		users := &fakeUsers{}
		v := auth.NewTelegramVerifier(botToken, 0, users)
		data := signInitData(t, botToken, map[string]string{
			"user":      `{"id":77,"first_name":"","username":"solo"}`,
			"auth_date": fields["auth_date"],
		})

		_, err := v.Verify(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, "solo", users.fullName)
	})
}
