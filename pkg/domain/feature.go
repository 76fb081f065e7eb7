package domain

import dErrors "eventdesk/pkg/domain-errors"

// Feature is a canonical capability the application can conditionally expose.
// The set is fixed at build time; persistence maps each Feature to a catalog
// entry UUID (internal/entitlement).
//
// Invariant: the value must be one of the supported feature keys. Construct
// via ParseFeature at trust boundaries.
type Feature string

// Supported features. The string values are persisted as catalog keys and must
// not change once shipped.
const (
	FeatureCheckInDesk    Feature = "check_in_desk"
	FeatureQRScanner      Feature = "qr_scanner"
	FeatureBoothTracking  Feature = "booth_tracking"
	FeatureDuplicateMerge Feature = "duplicate_merge"
	FeatureDashboard      Feature = "dashboard"
	FeatureReports        Feature = "reports"
	FeatureExports        Feature = "exports"
	FeatureEmailCampaigns Feature = "email_campaigns"
)

// validFeatures is the single source of truth for valid feature keys.
var validFeatures = map[Feature]bool{
	FeatureCheckInDesk:    true,
	FeatureQRScanner:      true,
	FeatureBoothTracking:  true,
	FeatureDuplicateMerge: true,
	FeatureDashboard:      true,
	FeatureReports:        true,
	FeatureExports:        true,
	FeatureEmailCampaigns: true,
}

// ParseFeature constructs a Feature from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseFeature(s string) (Feature, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "feature cannot be empty")
	}
	f := Feature(s)
	if !f.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown feature %q", s)
	}
	return f, nil
}

// IsValid checks if the feature is one of the supported keys.
func (f Feature) IsValid() bool {
	return validFeatures[f]
}

// String returns the string representation of the feature.
func (f Feature) String() string {
	return string(f)
}

// AllFeatures returns every supported feature in a stable order. Useful for
// bulk toggles and for seeding the catalog.
func AllFeatures() []Feature {
	return []Feature{
		FeatureCheckInDesk,
		FeatureQRScanner,
		FeatureBoothTracking,
		FeatureDuplicateMerge,
		FeatureDashboard,
		FeatureReports,
		FeatureExports,
		FeatureEmailCampaigns,
	}
}
