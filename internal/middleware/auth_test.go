package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func guarded(secret string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return AccessGuard(secret)(next)
}

func TestAccessGuardValidToken(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/upload-analyze", nil)
	req.Header.Set(HeaderAPIToken, "sekret")
	w := httptest.NewRecorder()

	guarded("sekret").ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAccessGuardMissingToken(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/upload-analyze", nil)
	w := httptest.NewRecorder()

	guarded("sekret").ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid or missing Access_Key", gjson.Get(w.Body.String(), "error").String())
}

func TestAccessGuardWrongToken(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/upload-analyze", nil)
	req.Header.Set(HeaderAPIToken, "guess")
	w := httptest.NewRecorder()

	guarded("sekret").ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAccessGuardFailsClosedWhenUnset(t *testing.T) {
	// no configured secret means no provided token can match
	for _, provided := range []string{"", "anything"} {
		req := httptest.NewRequest("POST", "/api/upload-analyze", nil)
		if provided != "" {
			req.Header.Set(HeaderAPIToken, provided)
		}
		w := httptest.NewRecorder()

		guarded("").ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	}
}
