package providers

import (
	"context"
)

// LoyaltyProvider credits loyalty points to customer accounts. Crediting is
// delegated to an external collaborator; the scheduling core only triggers
// it after a completion with a positive points snapshot.
type LoyaltyProvider interface {
	// Credit adds points to the customer account
	Credit(ctx context.Context, customerAccountID string, points int, reservationID string) error
}
