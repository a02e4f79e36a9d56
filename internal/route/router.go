// Package route decides where a claim goes once its fields are extracted.
package route

import (
	"fmt"
	"strings"

	"github.com/dgallion1/fnolgest/internal/claim"
)

// FastTrackLimit is the exclusive damage ceiling for fast-track handling.
const FastTrackLimit = 25000

// DetectMissing returns the mandatory fields that are absent from f, in
// claim.MandatoryFields order.
func DetectMissing(f claim.Fields) []string {
	var missing []string
	for _, key := range claim.MandatoryFields {
		if !f.Present(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// Recommend picks a route for a claim. Rules are evaluated in priority
// order and the first one that applies decides; later rules never
// contribute to the reason.
func Recommend(f claim.Fields, missing []string) claim.Decision {
	if len(missing) > 0 {
		return decide(claim.RouteManualReview, "Missing fields: "+strings.Join(missing, ", "))
	}
	if HasFraudIndicator(f) {
		return decide(claim.RouteInvestigation, "Description contains investigation keywords")
	}
	if strings.ToLower(strings.TrimSpace(f.Text(claim.KeyClaimType))) == "injury" {
		return decide(claim.RouteSpecialistQueue, "Claim type is injury")
	}
	if f.EstimatedDamage != nil && *f.EstimatedDamage < FastTrackLimit {
		return decide(claim.RouteFastTrack, fmt.Sprintf("Estimated damage %s < %d", claim.FormatAmount(*f.EstimatedDamage), FastTrackLimit))
	}
	return decide(claim.RouteStandardReview, "Default path")
}

func decide(r claim.Route, reason string) claim.Decision {
	return claim.Decision{Route: r, Reason: reason}
}
