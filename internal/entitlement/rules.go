// Package entitlement decides whether a user's tier permits access to a
// resource. Decisions are a pure function of (resource, stored tier, expiry,
// evaluation time); nothing here caches per-user state.
package entitlement

import (
	"time"

	"github.com/course-companion/backend/internal/models"
)

type ruleKey struct {
	resourceType models.ResourceType
	resourceID   int64
}

// Ruleset is an immutable snapshot of entitlement rules, loaded once at
// startup and never mutated for the process lifetime.
type Ruleset struct {
	exact    map[ruleKey]models.EntitlementRule
	wildcard map[models.ResourceType]models.EntitlementRule
}

func NewRuleset(rules []models.EntitlementRule) *Ruleset {
	rs := &Ruleset{
		exact:    make(map[ruleKey]models.EntitlementRule),
		wildcard: make(map[models.ResourceType]models.EntitlementRule),
	}
	for _, r := range rules {
		if r.ResourceID != nil {
			rs.exact[ruleKey{r.ResourceType, *r.ResourceID}] = r
		} else {
			rs.wildcard[r.ResourceType] = r
		}
	}
	return rs
}

// Resolve returns the most specific rule for a resource: an exact
// (type, id) rule beats the type-wide wildcard.
func (rs *Ruleset) Resolve(resourceType models.ResourceType, resourceID *int64) (models.EntitlementRule, bool) {
	if resourceID != nil {
		if r, ok := rs.exact[ruleKey{resourceType, *resourceID}]; ok {
			return r, true
		}
	}
	r, ok := rs.wildcard[resourceType]
	return r, ok
}

// Decide computes the access decision. A resource with no rule is open to
// every tier. Denials always carry the minimal tier that would grant access
// plus the upgrade reference, so callers never need a second lookup.
func Decide(user models.User, rs *Ruleset, resourceType models.ResourceType, resourceID *int64, now time.Time, upgradeURL string) models.AccessDecision {
	effective := user.EffectiveTier(now)

	rule, ok := rs.Resolve(resourceType, resourceID)
	if !ok || effective.AtLeast(rule.MinTier) {
		return models.AccessDecision{Allowed: true, EffectiveTier: effective}
	}

	return models.AccessDecision{
		Allowed:         false,
		EffectiveTier:   effective,
		MinTierRequired: rule.MinTier,
		UpgradeURL:      upgradeURL,
	}
}
