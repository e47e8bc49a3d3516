package leads

import "strings"

// Scoring is a fixed additive policy, clamped to [0, MaxScore].
//
// The thresholds, point values, and pest list are deliberate literal
// constants rather than configuration: the score feeds branch conditions
// and must stay a pure, deterministic function of the lead record.
const MaxScore = 100

const (
	urgencyUrgentPoints = 100
	urgencyHighPoints   = 75
	urgencyMediumPoints = 50
	urgencyLowPoints    = 25

	highValuePestPoints = 25

	sizeLargePoints  = 25 // > 3000 sqft
	sizeMediumPoints = 15 // > 2000 sqft
	sizeSmallPoints  = 10 // > 1000 sqft

	sourceReferralPoints   = 30
	sourceOrganicPoints    = 20
	sourcePaidSearchPoints = 15

	phonePoints   = 10
	emailPoints   = 10
	addressPoints = 5
)

// highValuePests are categories that historically convert to larger jobs.
var highValuePests = map[string]struct{}{
	"termites": {},
	"bed_bugs": {},
	"rodents":  {},
}

// Score maps a lead's attributes to an integer in [0, MaxScore].
// Pure function: no I/O, identical input always yields identical output.
func Score(l Lead) int {
	score := 0

	// Urgency tiers are mutually exclusive; first match only.
	switch strings.ToLower(l.Urgency) {
	case "urgent":
		score += urgencyUrgentPoints
	case "high":
		score += urgencyHighPoints
	case "medium":
		score += urgencyMediumPoints
	case "low":
		score += urgencyLowPoints
	}

	if _, ok := highValuePests[strings.ToLower(l.PestType)]; ok {
		score += highValuePestPoints
	}

	// Exactly one size tier applies: the largest threshold met.
	switch {
	case l.HomeSize > 3000:
		score += sizeLargePoints
	case l.HomeSize > 2000:
		score += sizeMediumPoints
	case l.HomeSize > 1000:
		score += sizeSmallPoints
	}

	switch strings.ToLower(l.Source) {
	case "referral":
		score += sourceReferralPoints
	case "organic":
		score += sourceOrganicPoints
	case "paid_search":
		score += sourcePaidSearchPoints
	}

	// Contact completeness bonuses are independent and additive.
	if l.Phone != "" {
		score += phonePoints
	}
	if l.Email != "" {
		score += emailPoints
	}
	if l.Street != "" {
		score += addressPoints
	}

	if score > MaxScore {
		score = MaxScore
	}
	return score
}

// IsHighValuePest reports whether the pest category is in the fixed
// high-value set. Shared with branch suggestion hints.
func IsHighValuePest(pestType string) bool {
	_, ok := highValuePests[strings.ToLower(pestType)]
	return ok
}
