package shared

import (
	"context"

	"github.com/google/uuid"
)

// Role is the privilege level of an authenticated user
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Actor identifies the authenticated user performing an operation.
// It is built by the authentication middleware and threaded through the
// application services for ownership and privilege checks.
type Actor struct {
	UserID uuid.UUID
	Role   Role
	IP     string
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// actorContextKey is the context key for the current actor
type actorContextKey struct{}

// WithActor returns a new context carrying the actor
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext retrieves the actor from context
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
