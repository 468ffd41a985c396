// Package credentials implements the persistent credential slot: durable
// storage for at most one session token plus its cached user profile,
// surviving process restarts.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/studynotes/internal/client/models"
)

// Store is the persistent credential slot.
//
// Contract:
//   - Get returns (nil, nil) when no credential is stored.
//   - Set replaces the slot as a whole; a reader never observes a token
//     without its user snapshot or vice versa.
//   - Clear removes the slot; clearing an empty slot is a no-op.
type Store interface {
	Get(ctx context.Context) (*models.Credential, error)
	Set(ctx context.Context, cred *models.Credential) error
	Clear(ctx context.Context) error
}
