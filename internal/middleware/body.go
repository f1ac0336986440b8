package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/CesarGorge/mini-wallet-api/internal/httputil"
)

// NormalizeBody adapts request bodies that arrive wrapped by a transport
// shim. Gateway-style transports re-encode the JSON document as a JSON
// string; that layer is unwrapped here so handlers always see a parsed-ready
// structure. A body that is not valid JSON short-circuits with 400 before
// any handler runs.
func NormalizeBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || (r.Method != http.MethodPost && r.Method != http.MethodPut) {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := io.ReadAll(r.Body)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		body := bytes.TrimSpace(raw)
		if len(body) == 0 {
			r.Body = io.NopCloser(bytes.NewReader(nil))
			next.ServeHTTP(w, r)
			return
		}

		if body[0] == '"' {
			var inner string
			if err := json.Unmarshal(body, &inner); err != nil {
				httputil.WriteError(w, http.StatusBadRequest, "malformed request body")
				return
			}
			body = []byte(inner)
		}

		if !json.Valid(body) {
			httputil.WriteError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		next.ServeHTTP(w, r)
	})
}
