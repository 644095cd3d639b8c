package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandlerSetsCookie(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "staff@oakwell.example", "s3cret-pass")
	handler := NewHandler(svc, time.Hour, false, nil)

	body := strings.NewReader(`{"email":"staff@oakwell.example","password":"s3cret-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/api/login", body)
	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp loginResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginHandlerRejectsBadCredentials(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "staff@oakwell.example", "s3cret-pass")
	handler := NewHandler(svc, time.Hour, false, nil)

	body := strings.NewReader(`{"email":"staff@oakwell.example","password":"nope"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/api/login", body)
	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginHandlerRejectsBadBody(t *testing.T) {
	svc, _ := setupService(t)
	handler := NewHandler(svc, time.Hour, false, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/login", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogoutHandlerClearsCookieAndRevokes(t *testing.T) {
	svc, users := setupService(t)
	addUser(t, users, "staff@oakwell.example", "s3cret-pass")
	handler := NewHandler(svc, time.Hour, false, nil)

	ctx := context.Background()
	token, err := svc.Login(ctx, "staff@oakwell.example", "s3cret-pass")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	handler.Logout(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}
