// Package actor reads the acting user from the X-Actor-ID header.
//
// Authentication happens upstream; this service trusts the gateway to set the
// header. A missing header is allowed through so reads work anonymously, and
// the service rejects writes without an actor.
package actor

import (
	"fmt"
	"log/slog"
	"net/http"

	id "demographics/pkg/domain"
	"demographics/pkg/requestcontext"
)

// Header carries the acting user's UUID.
const Header = "X-Actor-ID"

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// Extract parses the actor header into the request context. A malformed
// header is rejected with 400.
func Extract(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(Header)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			actorID, err := id.ParseActorID(raw)
			if err != nil {
				logger.WarnContext(ctx, "rejected malformed actor header",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusBadRequest, "invalid_input", "X-Actor-ID must be a uuid")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actorID)))
		})
	}
}
