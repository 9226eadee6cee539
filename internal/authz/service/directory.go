package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/store"
)

// DirectoryService maintains the local user read-model. The platform
// identity service owns accounts; this service only mirrors the claims of
// verified sessions so invitations can match emails and listings can show
// display names without another network hop.
type DirectoryService struct {
	Store store.Store
}

// SyncIdentity upserts the directory row for an authenticated caller.
// Called once per authenticated request; the upsert is idempotent. The
// email is stored lowercased so invitation address checks match it
// regardless of how the identity service cases session claims.
func (s *DirectoryService) SyncIdentity(ctx context.Context, userID, email, displayName string) error {
	if userID == "" || email == "" {
		return fmt.Errorf("%w: session claims missing subject or email", ErrValidation)
	}

	now := time.Now().UTC()
	return s.Store.Users().UpsertUser(ctx, domain.User{
		ID:          userID,
		Email:       strings.ToLower(email),
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
