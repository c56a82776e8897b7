package models

import "time"

// Tier is a user's subscription level. Tiers form a total order:
// free < premium < pro < team.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierPro     Tier = "pro"
	TierTeam    Tier = "team"
)

var tierRank = map[Tier]int{
	TierFree:    0,
	TierPremium: 1,
	TierPro:     2,
	TierTeam:    3,
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// AtLeast reports whether t grants at least the access of other.
func (t Tier) AtLeast(other Tier) bool {
	return tierRank[t] >= tierRank[other]
}

// User is an authenticated identity consumed from the auth collaborator.
// This core reads tier state and timezone; it never issues credentials.
type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Tier          Tier       `json:"tier"`
	TierExpiresAt *time.Time `json:"tier_expires_at,omitempty"`
	Timezone      string     `json:"timezone"`
	CreatedAt     time.Time  `json:"created_at"`
}

// EffectiveTier returns the tier used for entitlement decisions at the given
// evaluation time. An expired paid tier is treated as free lazily; expiry is
// never applied by a background mutation.
func (u User) EffectiveTier(now time.Time) Tier {
	if u.Tier == TierFree || !u.Tier.Valid() {
		return TierFree
	}
	if u.TierExpiresAt != nil && u.TierExpiresAt.Before(now) {
		return TierFree
	}
	return u.Tier
}

// Location resolves the user's IANA timezone, falling back to UTC.
func (u User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
