package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler answers a request whose handler panicked with value err
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery turns a panic in a REST handler or a websocket upgrade into a logged
// stack trace plus whatever response handler writes. Panics inside the websocket
// pumps run on their own goroutines and never reach it.
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "http-recovery"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				logger.Error("handler panicked",
					slog.Any("error", err),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("stack", string(debug.Stack())),
				)
				handler(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
