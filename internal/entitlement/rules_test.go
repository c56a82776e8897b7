package entitlement

import (
	"testing"
	"time"

	"github.com/course-companion/backend/internal/models"
)

var evalTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ptr(v int64) *int64 { return &v }

func premiumWildcard() *Ruleset {
	return NewRuleset([]models.EntitlementRule{
		{ID: 1, ResourceType: models.ResourceChapter, MinTier: models.TierPremium},
	})
}

func TestResolvePrecedence(t *testing.T) {
	rs := NewRuleset([]models.EntitlementRule{
		{ID: 1, ResourceType: models.ResourceChapter, MinTier: models.TierPremium},
		{ID: 2, ResourceType: models.ResourceChapter, ResourceID: ptr(7), MinTier: models.TierPro},
	})

	// Exact rule beats the wildcard.
	rule, ok := rs.Resolve(models.ResourceChapter, ptr(7))
	if !ok || rule.MinTier != models.TierPro {
		t.Errorf("Resolve(chapter, 7) = %+v, %v; want pro rule", rule, ok)
	}

	// Other IDs fall back to the wildcard.
	rule, ok = rs.Resolve(models.ResourceChapter, ptr(3))
	if !ok || rule.MinTier != models.TierPremium {
		t.Errorf("Resolve(chapter, 3) = %+v, %v; want premium wildcard", rule, ok)
	}

	// Unruled resource types resolve to nothing.
	if _, ok := rs.Resolve(models.ResourceCourse, ptr(1)); ok {
		t.Error("Resolve(course) matched a rule, want none")
	}
}

func TestDecideFreeUserDenied(t *testing.T) {
	user := models.User{ID: 1, Tier: models.TierFree}

	d := Decide(user, premiumWildcard(), models.ResourceChapter, ptr(5), evalTime, "/pricing")
	if d.Allowed {
		t.Fatal("free user allowed premium chapter")
	}
	if d.MinTierRequired != models.TierPremium {
		t.Errorf("MinTierRequired = %q, want premium", d.MinTierRequired)
	}
	if d.UpgradeURL != "/pricing" {
		t.Errorf("UpgradeURL = %q, want /pricing", d.UpgradeURL)
	}
}

func TestDecidePremiumUserAllowed(t *testing.T) {
	expires := evalTime.Add(30 * 24 * time.Hour)
	user := models.User{ID: 1, Tier: models.TierPremium, TierExpiresAt: &expires}

	d := Decide(user, premiumWildcard(), models.ResourceChapter, ptr(5), evalTime, "/pricing")
	if !d.Allowed {
		t.Fatal("premium user denied premium chapter")
	}
	if d.MinTierRequired != "" {
		t.Errorf("allow decision carries MinTierRequired %q", d.MinTierRequired)
	}
}

func TestDecideExpiredPremiumBehavesAsFree(t *testing.T) {
	expired := evalTime.Add(-time.Hour)
	expiredUser := models.User{ID: 1, Tier: models.TierPremium, TierExpiresAt: &expired}
	freeUser := models.User{ID: 2, Tier: models.TierFree}

	rs := premiumWildcard()
	got := Decide(expiredUser, rs, models.ResourceChapter, ptr(5), evalTime, "/pricing")
	want := Decide(freeUser, rs, models.ResourceChapter, ptr(5), evalTime, "/pricing")

	if got.Allowed != want.Allowed || got.MinTierRequired != want.MinTierRequired || got.EffectiveTier != want.EffectiveTier {
		t.Errorf("expired premium decision %+v differs from free decision %+v", got, want)
	}
	if got.EffectiveTier != models.TierFree {
		t.Errorf("EffectiveTier = %q, want free", got.EffectiveTier)
	}
}

func TestDecideTierOrder(t *testing.T) {
	rs := NewRuleset([]models.EntitlementRule{
		{ID: 1, ResourceType: models.ResourceFeature, MinTier: models.TierPro},
	})

	tests := []struct {
		tier    models.Tier
		allowed bool
	}{
		{models.TierFree, false},
		{models.TierPremium, false},
		{models.TierPro, true},
		{models.TierTeam, true},
	}

	for _, tt := range tests {
		user := models.User{ID: 1, Tier: tt.tier}
		d := Decide(user, rs, models.ResourceFeature, nil, evalTime, "/pricing")
		if d.Allowed != tt.allowed {
			t.Errorf("tier %q: Allowed = %v, want %v", tt.tier, d.Allowed, tt.allowed)
		}
	}
}

func TestDecideUnruledResourceIsOpen(t *testing.T) {
	user := models.User{ID: 1, Tier: models.TierFree}
	d := Decide(user, NewRuleset(nil), models.ResourceQuiz, ptr(9), evalTime, "/pricing")
	if !d.Allowed {
		t.Error("resource with no rule denied; want open access")
	}
}
