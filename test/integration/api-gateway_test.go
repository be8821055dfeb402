//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type errorResp struct {
	Detail string `json:"detail"`
}

func TestAuth_SessionLifecycle(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGHealthURL, 60*time.Second)
	db := DBOpen(t, cfg.DBDSN)

	email := UniqueEmail("auth")
	creds := map[string]string{"email": email, "password": "supersecret"}

	var reg struct {
		Msg string `json:"msg"`
		ID  int64  `json:"id"`
	}
	require.Equal(t, http.StatusCreated, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/register", "", creds, &reg))
	assert.Equal(t, "user created", reg.Msg)

	var dup errorResp
	require.Equal(t, http.StatusBadRequest, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/register", "", creds, &dup))
	assert.Equal(t, "email already registered", dup.Detail)

	var login tokenResp
	require.Equal(t, http.StatusOK, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/login", "", creds, &login))
	assert.Equal(t, "bearer", login.TokenType)

	var me struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.Equal(t, http.StatusOK, Call(t, http.MethodGet, cfg.AGBaseURL+"/me", login.AccessToken, nil, &me))
	assert.Equal(t, reg.ID, me.ID)
	assert.Equal(t, email, me.Email)

	var rotated tokenResp
	require.Equal(t, http.StatusOK, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/refresh", "",
		map[string]string{"refresh_token": login.RefreshToken}, &rotated))
	require.Equal(t, http.StatusUnauthorized, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/refresh", "",
		map[string]string{"refresh_token": login.RefreshToken}, nil))

	total, revoked := RefreshTokenRows(t, db, email)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, revoked)

	require.Equal(t, http.StatusOK, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/logout", "",
		map[string]string{"refresh_token": rotated.RefreshToken}, nil))
	_, revoked = RefreshTokenRows(t, db, email)
	assert.Equal(t, 2, revoked)

	require.Equal(t, http.StatusNoContent, Call(t, http.MethodDelete, cfg.AGBaseURL+"/me", login.AccessToken, nil, nil))
	var gone errorResp
	require.Equal(t, http.StatusUnauthorized, Call(t, http.MethodGet, cfg.AGBaseURL+"/me", login.AccessToken, nil, &gone))
	assert.Equal(t, "user not found", gone.Detail)
	total, _ = RefreshTokenRows(t, db, email)
	assert.Zero(t, total, "sessions cascade with the account")
}

func TestProfileFamilyHospitals(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGHealthURL, 60*time.Second)
	db := DBOpen(t, cfg.DBDSN)

	email := UniqueEmail("care")
	creds := map[string]string{"email": email, "password": "supersecret"}
	require.Equal(t, http.StatusCreated, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/register", "", creds, nil))
	var login tokenResp
	require.Equal(t, http.StatusOK, Call(t, http.MethodPost, cfg.AGBaseURL+"/auth/login", "", creds, &login))
	tok := login.AccessToken

	var prof map[string]any
	require.Equal(t, http.StatusOK, Call(t, http.MethodPut, cfg.AGBaseURL+"/me/profile", tok,
		map[string]any{"name": "Kim", "gender": "여자", "allergy": map[string]any{"penicillin": true}}, &prof))
	assert.Equal(t, "female", prof["gender"])
	require.Equal(t, http.StatusOK, Call(t, http.MethodPatch, cfg.AGBaseURL+"/me/profile", tok,
		map[string]any{"height": 161.5}, &prof))
	assert.Equal(t, "Kim", prof["name"])
	assert.Equal(t, 161.5, prof["height"])
	assert.Equal(t, map[string]any{"penicillin": true}, prof["allergy"])

	var member map[string]any
	require.Equal(t, http.StatusCreated, Call(t, http.MethodPost, cfg.AGBaseURL+"/me/family", tok,
		map[string]any{"relationship": "부", "name": "Dad"}, &member))
	assert.Equal(t, "father", member["relationship"])

	name := "IT Hospital " + email
	id := SeedHospital(t, db, name, true)
	var page struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
	}
	require.Equal(t, http.StatusOK, Call(t, http.MethodGet, cfg.AGBaseURL+"/hospitals?q="+email, "", nil, &page))
	require.EqualValues(t, 1, page.Total)
	assert.EqualValues(t, id, page.Items[0]["id"])

	var e errorResp
	require.Equal(t, http.StatusMethodNotAllowed, Call(t, http.MethodPost, cfg.AGBaseURL+"/hospitals", "", map[string]any{}, &e))
	assert.Equal(t, "hospitals are read-only resources", e.Detail)
}
