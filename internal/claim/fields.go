package claim

import (
	"regexp"
	"strconv"
	"strings"
)

// Field keys of a FieldRecord.
const (
	KeyPolicyNumber        = "policy_number"
	KeyPolicyholderName    = "policyholder_name"
	KeyEffectiveDates      = "effective_dates"
	KeyIncidentDate        = "incident_date"
	KeyIncidentTime        = "incident_time"
	KeyIncidentLocation    = "incident_location"
	KeyIncidentDescription = "incident_description"
	KeyClaimant            = "claimant"
	KeyThirdParties        = "third_parties"
	KeyContactDetails      = "contact_details"
	KeyAssetType           = "asset_type"
	KeyAssetID             = "asset_id"
	KeyEstimatedDamage     = "estimated_damage"
	KeyClaimType           = "claim_type"
	KeyAttachments         = "attachments"
	KeyInitialEstimate     = "initial_estimate"
	KeyInconsistencies     = "inconsistencies"
)

// MandatoryFields must all be present for a claim to be considered complete.
// Order is significant: missing-field lists are reported in this order.
var MandatoryFields = []string{
	KeyPolicyNumber,
	KeyPolicyholderName,
	KeyIncidentDate,
	KeyIncidentDescription,
	KeyClaimType,
	KeyEstimatedDamage,
	KeyAttachments,
	KeyInitialEstimate,
}

// Fields is the structured record extracted from one FNOL document.
// A nil pointer or nil slice means the field was not found.
type Fields struct {
	PolicyNumber        *string  `json:"policy_number"`
	PolicyholderName    *string  `json:"policyholder_name"`
	EffectiveDates      *string  `json:"effective_dates"`
	IncidentDate        *string  `json:"incident_date"`
	IncidentTime        *string  `json:"incident_time"`
	IncidentLocation    *string  `json:"incident_location"`
	IncidentDescription *string  `json:"incident_description"`
	Claimant            *string  `json:"claimant"`
	ThirdParties        *string  `json:"third_parties"`
	ContactDetails      *string  `json:"contact_details"`
	AssetType           *string  `json:"asset_type"`
	AssetID             *string  `json:"asset_id"`
	EstimatedDamage     *float64 `json:"estimated_damage"`
	ClaimType           *string  `json:"claim_type"`
	Attachments         []string `json:"attachments"`
	InitialEstimate     *float64 `json:"initial_estimate"`
	Inconsistencies     []string `json:"inconsistencies"`
}

// Present reports whether the field named key holds a value. List fields
// count as present only when non-empty. Unknown keys are never present.
func (f Fields) Present(key string) bool {
	switch key {
	case KeyAttachments:
		return len(f.Attachments) > 0
	case KeyInconsistencies:
		return len(f.Inconsistencies) > 0
	case KeyEstimatedDamage:
		return f.EstimatedDamage != nil
	case KeyInitialEstimate:
		return f.InitialEstimate != nil
	}
	if p := f.text(key); p != nil {
		return *p != nil
	}
	return false
}

// Text returns the string value for key, or "" when absent or not a text field.
func (f Fields) Text(key string) string {
	if p := f.text(key); p != nil && *p != nil {
		return **p
	}
	return ""
}

// text maps a text key to its slot in f. It returns nil for non-text keys.
func (f *Fields) text(key string) **string {
	switch key {
	case KeyPolicyNumber:
		return &f.PolicyNumber
	case KeyPolicyholderName:
		return &f.PolicyholderName
	case KeyEffectiveDates:
		return &f.EffectiveDates
	case KeyIncidentDate:
		return &f.IncidentDate
	case KeyIncidentTime:
		return &f.IncidentTime
	case KeyIncidentLocation:
		return &f.IncidentLocation
	case KeyIncidentDescription:
		return &f.IncidentDescription
	case KeyClaimant:
		return &f.Claimant
	case KeyThirdParties:
		return &f.ThirdParties
	case KeyContactDetails:
		return &f.ContactDetails
	case KeyAssetType:
		return &f.AssetType
	case KeyAssetID:
		return &f.AssetID
	case KeyClaimType:
		return &f.ClaimType
	}
	return nil
}

// SetText stores s under key. It reports false if key is not a text field.
func (f *Fields) SetText(key, s string) bool {
	p := f.text(key)
	if p == nil {
		return false
	}
	v := s
	*p = &v
	return true
}

// SetAmount stores v under key. It reports false if key is not an amount field.
func (f *Fields) SetAmount(key string, v *float64) bool {
	switch key {
	case KeyEstimatedDamage:
		f.EstimatedDamage = v
	case KeyInitialEstimate:
		f.InitialEstimate = v
	default:
		return false
	}
	return true
}

// SetList stores items under key. It reports false if key is not a list
// field fed by extraction.
func (f *Fields) SetList(key string, items []string) bool {
	if key != KeyAttachments {
		return false
	}
	f.Attachments = items
	return true
}

var nonAmount = regexp.MustCompile(`[^0-9.]`)

// ParseAmount strips everything except digits and '.' from raw and parses
// the remainder. It returns nil when nothing usable is left, including a
// value too large for a float64.
func ParseAmount(raw string) *float64 {
	cleaned := nonAmount.ReplaceAllString(raw, "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

var attachmentSep = regexp.MustCompile(`[;,]`)

// SplitAttachments splits raw on ';' or ',' and drops empty pieces.
// It returns nil if no piece survives.
func SplitAttachments(raw string) []string {
	var out []string
	for _, part := range attachmentSep.Split(raw, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatAmount renders v the way amounts appear in routing reasons:
// integral values keep a trailing ".0" (12000 -> "12000.0"). Values whose
// decimal exponent is below -4 or at least 16 use the shortest exponent
// form instead (0.00001 -> "1e-05", 1.5e16 -> "1.5e+16").
func FormatAmount(v float64) string {
	if v != 0 {
		e := strconv.FormatFloat(v, 'e', -1, 64)
		if i := strings.IndexByte(e, 'e'); i >= 0 {
			if exp, err := strconv.Atoi(e[i+1:]); err == nil && (exp < -4 || exp >= 16) {
				return e
			}
		}
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
