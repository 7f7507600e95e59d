package api

import (
	"context"

	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/user"
)

// PrincipalLookup resolves the caller's current active and staff flags from the
// user store, so demoted or deactivated users lose access on their next request.
func PrincipalLookup(userService user.Service) auth.PrincipalLookup {
	return func(ctx context.Context, userID string) (bool, bool, error) {
		u, err := userService.GetByID(ctx, userID)
		if err != nil {
			return false, false, err
		}
		return u.IsActive, u.IsStaff, nil
	}
}
