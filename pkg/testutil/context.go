package testutil

import (
	"net/http"
	"time"

	id "demographics/pkg/domain"
	"demographics/pkg/requestcontext"
)

// WithActor puts the acting user on the request context, bypassing the
// X-Actor-ID header.
func WithActor(req *http.Request, actorID id.ActorID) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actorID))
}

// WithRequestTime pins the request clock so audit timestamps are predictable.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
