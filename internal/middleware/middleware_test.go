package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CesarGorge/mini-wallet-api/internal/token"
)

func TestAuthenticated_MissingHeader(t *testing.T) {
	tokens := token.NewService([]byte("secret"), time.Hour)
	handlerCalled := false

	h := Authenticated(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerCalled, "handler must not run without a token")
}

func TestAuthenticated_BadScheme(t *testing.T) {
	tokens := token.NewService([]byte("secret"), time.Hour)
	h := Authenticated(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticated_InvalidToken(t *testing.T) {
	tokens := token.NewService([]byte("secret"), time.Hour)
	h := Authenticated(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticated_ValidToken(t *testing.T) {
	tokens := token.NewService([]byte("secret"), time.Hour)
	signed, err := tokens.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	var gotUserID, gotEmail string
	h := Authenticated(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := Principal(r.Context())
		require.True(t, ok)
		gotUserID = claims.UserID
		gotEmail = claims.Email
	}))

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", gotUserID)
	assert.Equal(t, "u1@x.com", gotEmail)
}

func TestNormalizeBody_UnwrapsStringWrappedJSON(t *testing.T) {
	var seen string
	h := NormalizeBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
	}))

	// The document double-encoded as a JSON string, the way a gateway shim
	// delivers it.
	wrapped := `"{\"userId\":\"u1\",\"amount\":5}"`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(wrapped))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"u1","amount":5}`, seen)
}

func TestNormalizeBody_RejectsMalformedJSON(t *testing.T) {
	handlerCalled := false
	h := NormalizeBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, handlerCalled)
}

func TestNormalizeBody_PassesPlainJSONAndGET(t *testing.T) {
	var seen string
	h := NormalizeBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(`{"a":1}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"a":1}`, seen)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover_TurnsPanicInto500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}
