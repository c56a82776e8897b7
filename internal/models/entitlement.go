package models

// ResourceType names a gated resource class.
type ResourceType string

const (
	ResourceChapter ResourceType = "chapter"
	ResourceQuiz    ResourceType = "quiz"
	ResourceCourse  ResourceType = "course"
	ResourceFeature ResourceType = "feature"
)

var ValidResourceTypes = map[ResourceType]bool{
	ResourceChapter: true,
	ResourceQuiz:    true,
	ResourceCourse:  true,
	ResourceFeature: true,
}

// EntitlementRule maps a resource to the minimum tier required to access it.
// A rule with ResourceID set takes precedence over the type-wide wildcard
// (ResourceID == nil).
type EntitlementRule struct {
	ID           int64        `json:"id"`
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   *int64       `json:"resource_id,omitempty"`
	MinTier      Tier         `json:"min_tier"`
}

// AccessDecision is the full answer to a checkAccess call. Denials always
// carry the minimal tier that would grant access so callers never need a
// second lookup.
type AccessDecision struct {
	Allowed         bool   `json:"allowed"`
	EffectiveTier   Tier   `json:"effective_tier"`
	MinTierRequired Tier   `json:"min_tier_required,omitempty"`
	UpgradeURL      string `json:"upgrade_url,omitempty"`
}
