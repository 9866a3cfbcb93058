package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/pkg/jwtauth"
	"github.com/jorgebenaventee/taskify/pkg/logger"
)

type ctxKey int

const userIDKey ctxKey = iota

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := httptest.NewRecorder()

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("METHOD %s URI %s %s	STATUS %d Latency %s Client IP %s User Agent %s",
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					rr.Code,
					latency,
					r.RemoteAddr,
					r.UserAgent(),
				)
			}()

			next.ServeHTTP(rr, r)

			for k, v := range rr.Header() {
				w.Header()[k] = v
			}

			w.WriteHeader(rr.Code)

			if rr.Code >= 400 && rr.Body.Len() != 0 {
				logg.Errorf("error: %s", rr.Body)
			}

			_, err := rr.Body.WriteTo(w)
			if err != nil {
				logg.Errorf("middleware write error: %s", err.Error())
			}
		})
	}
}

// authMiddleware rejects requests without a valid bearer token and puts
// the authenticated user id on the context.
func authMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				handleError(w, fmt.Errorf("bearer token required"), http.StatusUnauthorized) //nolint:perfsprint

				return
			}

			userID, err := jwtauth.ValidateToken(strings.TrimPrefix(header, prefix), secret)
			if err != nil {
				handleError(w, fmt.Errorf("authorization error: %w", err), http.StatusUnauthorized)

				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func currentUserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)

	return id
}
