package services

import (
	"context"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/dmitrijs2005/protodesk/internal/validation"
)

// IdentityService resolves the current user.
type IdentityService struct {
	client client.Client
	logger logging.Logger
}

func NewIdentityService(c client.Client, logger logging.Logger) *IdentityService {
	return &IdentityService{client: c, logger: logger}
}

// Current fetches the profile of the session user. It always returns a
// usable identity: when the profile cannot be fetched the identity is
// unresolved (role-less, view only) and the error says why.
func (s *IdentityService) Current(ctx context.Context) (models.Identity, error) {
	u, err := s.client.Profile(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to resolve identity", "error", err.Error())
		return models.Identity{}, err
	}
	return models.Identity{User: u, Resolved: true}, nil
}

// UpdateProfile validates and applies a self-service profile change.
func (s *IdentityService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	if err := validation.Struct(upd); err != nil {
		return models.User{}, err
	}
	return s.client.UpdateProfile(ctx, upd)
}
