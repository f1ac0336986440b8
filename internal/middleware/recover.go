package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/CesarGorge/mini-wallet-api/internal/httputil"
	"github.com/CesarGorge/mini-wallet-api/internal/logger"
)

// Recover is the final fallback: an uncaught panic becomes a generic 500
// with the error text, never a crashed connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
				)
				httputil.WriteInternalError(w, "something went wrong", fmt.Errorf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
