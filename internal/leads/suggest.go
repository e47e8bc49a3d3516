package leads

import "strings"

// SuggestBranches returns advisory workflow-branch tags for a lead.
//
// These are UI hints only: purely additive, order-independent, and never
// part of the actual branching decision.
func SuggestBranches(l Lead) []string {
	var tags []string

	urgency := strings.ToLower(l.Urgency)
	if urgency == "urgent" || urgency == "high" {
		tags = append(tags, "immediate_call", "fast_response_email")
	}
	if IsHighValuePest(l.PestType) {
		tags = append(tags, "specialist_consultation", "detailed_inspection")
	}
	if l.HomeSize > 3000 {
		tags = append(tags, "commercial_pricing", "detailed_quote")
	}
	if strings.ToLower(l.Source) == "referral" {
		tags = append(tags, "vip_treatment", "referral_thank_you")
	}

	return tags
}
