// Package identity resolves the calling user and party from OIDC bearer
// tokens and exposes them to domain handlers through the request context.
package identity

import "context"

// Party identifies which side of the engagement a user belongs to.
type Party string

const (
	// PartyDelivery is the integration delivery team.
	PartyDelivery Party = "delivery"
	// PartyClient is the customer organization.
	PartyClient Party = "client"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Party  Party  `json:"party"`
	// ClientID scopes client actors to their organization's projects.
	// Empty for delivery team members.
	ClientID string `json:"client_id,omitempty"`
}

// IsDelivery reports whether the actor is a delivery team member.
func (a Actor) IsDelivery() bool {
	return a.Party == PartyDelivery
}

// CanAccessClient reports whether the actor may act on a project owned by
// the given client organization. Delivery team members may act on any project.
func (a Actor) CanAccessClient(clientID string) bool {
	if a.IsDelivery() {
		return true
	}
	return a.ClientID == clientID
}

type contextKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFrom extracts the actor from the context.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}

// RequireParty returns ErrForbidden unless the actor belongs to the party.
func RequireParty(actor Actor, party Party) error {
	if actor.Party != party {
		return ErrForbidden
	}
	return nil
}
