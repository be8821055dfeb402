package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/auth"
	config "github.com/NordCoder/Carelink/internal/config/api-gateway"
	"github.com/NordCoder/Carelink/internal/domain/hospital"
	"github.com/NordCoder/Carelink/internal/domain/outbox"
	"github.com/NordCoder/Carelink/internal/repository/memory"
	authsvc "github.com/NordCoder/Carelink/internal/services/api-gateway/auth"
)

type testAPI struct {
	srv    *httptest.Server
	outbox *memory.OutboxRepo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{
		API:    config.API{Prefix: "/api/v1"},
		Server: config.Server{CORSOrigins: []string{"http://app.local"}},
	}
	hasher, err := auth.NewArgon2Hasher(auth.PasswordParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec([]byte("router-test"), 30*time.Minute)
	require.NoError(t, err)

	users := memory.NewUserRepo()
	ob := memory.NewOutboxRepo()
	store := authsvc.NewRefreshStore(memory.NewRefreshTokenRepo(), 7*24*time.Hour, nil)
	svcs := services{
		Users:    users,
		Profiles: memory.NewProfileRepo(),
		Families: memory.NewFamilyRepo(),
		Hospitals: memory.NewHospitalRepo(
			hospital.Hospital{ID: 1, Name: "Asan Medical Center", IsOpen: true},
		),
		Outbox: ob,
		AuthUC: authsvc.NewUseCase(users, store, memory.Transactor{}, hasher, codec, zap.NewNop()),
		Authn:  authsvc.NewAuthenticator(codec, users),
		Tx:     memory.Transactor{},
		Health: func(context.Context) error { return nil },
	}
	srv := httptest.NewServer(buildRouter(cfg, zap.NewNop(), svcs))
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, outbox: ob}
}

func (a *testAPI) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRouter_EndToEnd(t *testing.T) {
	api := newTestAPI(t)
	creds := map[string]string{"email": "kim@example.com", "password": "s3cret"}

	var reg struct {
		ID int64 `json:"id"`
	}
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/v1/auth/register", "", creds, &reg))

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	require.Equal(t, http.StatusOK, api.call(t, http.MethodPost, "/api/v1/auth/login", "", creds, &tokens))
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.EqualValues(t, 1800, tokens.ExpiresIn)
	tok := tokens.AccessToken

	assert.Equal(t, http.StatusUnauthorized, api.call(t, http.MethodGet, "/api/v1/me", "", nil, nil))

	var me map[string]any
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/v1/me", tok, nil, &me))
	assert.Equal(t, "kim@example.com", me["email"])
	assert.Equal(t, http.StatusForbidden, api.call(t, http.MethodGet, "/api/v1/users/"+strconv.FormatInt(reg.ID+1, 10), tok, nil, nil))

	assert.Equal(t, http.StatusNotFound, api.call(t, http.MethodGet, "/api/v1/me/profile", tok, nil, nil))
	assert.Equal(t, http.StatusOK, api.call(t, http.MethodPut, "/api/v1/me/profile", tok, map[string]any{"name": "Kim", "gender": "남자"}, nil))
	var prof map[string]any
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/v1/me/profile", tok, nil, &prof))
	assert.Equal(t, "male", prof["gender"])

	assert.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/v1/me/family", tok, map[string]any{"relationship": "모"}, nil))
	var fam []map[string]any
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/v1/me/family", tok, nil, &fam))
	require.Len(t, fam, 1)
	assert.Equal(t, "mother", fam[0]["relationship"])

	var page map[string]any
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/v1/hospitals?q=asan", "", nil, &page))
	assert.EqualValues(t, 1, page["total"])
	assert.Equal(t, http.StatusMethodNotAllowed, api.call(t, http.MethodDelete, "/api/v1/hospitals/1", "", nil, nil))

	var trig map[string]any
	require.Equal(t, http.StatusOK, api.call(t, http.MethodPost, "/api/v1/auto-call/trigger", tok, map[string]any{"hospital_ids": []int64{1}}, &trig))
	assert.Equal(t, true, trig["triggered"])
	msgs := api.outbox.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, outbox.KindAutoCallRequested, msgs[0].Kind)
	assert.Equal(t, trig["request_id"], msgs[0].IdempotencyKey)

	var rotated struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.Equal(t, http.StatusOK, api.call(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken}, &rotated))
	assert.Equal(t, http.StatusOK, api.call(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refresh_token": rotated.RefreshToken}, nil))

	assert.Equal(t, http.StatusNoContent, api.call(t, http.MethodDelete, "/api/v1/me", tok, nil, nil))
	var gone map[string]string
	require.Equal(t, http.StatusUnauthorized, api.call(t, http.MethodGet, "/api/v1/me", tok, nil, &gone))
	assert.Equal(t, "user not found", gone["detail"])
}

func TestRouter_Ambient(t *testing.T) {
	api := newTestAPI(t)

	resp, err := api.srv.Client().Get(api.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = api.srv.Client().Get(api.srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodOptions, api.srv.URL+"/api/v1/me", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://app.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err = api.srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://app.local", resp.Header.Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusNotFound, api.call(t, http.MethodGet, "/me", "", nil, nil))
}

func TestRouter_SmokePage(t *testing.T) {
	api := newTestAPI(t)

	resp, err := api.srv.Client().Get(api.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "Carelink API smoke test")
	assert.Contains(t, string(body), "v1")
	assert.NotContains(t, string(body), "{{")

	resp, err = api.srv.Client().Post(api.srv.URL+"/", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
