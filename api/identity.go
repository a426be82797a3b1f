/*
identity.go - Acting-user extraction from signed tokens

PURPOSE:
  The engine needs to know WHO is issuing each lifecycle command so the
  outcome can be attributed on the approval step. Authentication itself is
  someone else's job: requests arrive with a signed JWT, this middleware
  verifies the signature and places the resulting leave.Actor in the
  request context.

TOKEN CLAIMS:
  sub   actor ID (employee or approver identifier)
  name  display name for attribution
  role  role label (employee, manager, hr, admin)

SEE ALSO:
  - handlers.go: reads the actor from the context
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/warp/leave-engine/leave"
)

type contextKey string

const actorKey contextKey = "actor"

// IdentityClaims is the token payload the middleware understands.
type IdentityClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity verifies the Bearer token on each request and stores the acting
// user in the context. Requests without a valid token are rejected.
func Identity(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := &IdentityClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "Invalid token", err)
				return
			}

			actor := leave.Actor{ID: claims.Subject, Name: claims.Name, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
		})
	}
}

func withActor(ctx context.Context, actor leave.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the acting user placed in the context by Identity.
func ActorFrom(ctx context.Context) (leave.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(leave.Actor)
	return actor, ok
}

// IssueToken mints a token for the given actor. Used by tests and dev
// tooling; production tokens come from the identity provider.
func IssueToken(secret []byte, actor leave.Actor, ttl time.Duration) (string, error) {
	claims := IdentityClaims{
		Name: actor.Name,
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
