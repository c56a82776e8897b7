package entitlement

import (
	"context"
	"time"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/catalog"
	"github.com/course-companion/backend/internal/models"
)

type Service struct {
	users      *catalog.Store
	rules      *Ruleset
	upgradeURL string
	now        func() time.Time
}

func NewService(users *catalog.Store, rules *Ruleset, upgradeURL string) *Service {
	return &Service{
		users:      users,
		rules:      rules,
		upgradeURL: upgradeURL,
		now:        time.Now,
	}
}

// CheckAccess evaluates the gate for a resource. The user's tier is read
// fresh on every call, so a tier change is visible immediately; expiry is
// applied lazily at evaluation time.
func (s *Service) CheckAccess(ctx context.Context, userID int64, resourceType models.ResourceType, resourceID *int64) (models.AccessDecision, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return models.AccessDecision{}, err
	}
	return Decide(*user, s.rules, resourceType, resourceID, s.now(), s.upgradeURL), nil
}

// RequireAccess is the gate used inside mutation flows: a denial becomes a
// ForbiddenError carrying the upgrade metadata, so processing stops before
// any persistence.
func (s *Service) RequireAccess(ctx context.Context, userID int64, resourceType models.ResourceType, resourceID *int64) error {
	decision, err := s.CheckAccess(ctx, userID, resourceType, resourceID)
	if err != nil {
		return err
	}
	if decision.Allowed {
		return nil
	}
	return apperr.Forbidden("This content requires a higher subscription tier").WithDetail(map[string]interface{}{
		"min_tier_required": decision.MinTierRequired,
		"upgrade_url":       decision.UpgradeURL,
	})
}
