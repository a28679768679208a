package models

// FeatureFlags is the single process-wide settings document, stored as one
// row keyed by a fixed type discriminator.
type FeatureFlags struct {
	UseLiveAI      bool `json:"use_live_ai" db:"use_live_ai"`
	AllowCSVImport bool `json:"allow_csv_import" db:"allow_csv_import"`
}

func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{UseLiveAI: false, AllowCSVImport: true}
}
