package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"mf360/internal/models"
)

// featureFlagsType is the fixed discriminator keying the singleton settings row.
const featureFlagsType = "feature_flags"

type SettingsRepository interface {
	// GetFeatureFlags reads the singleton settings row, inserting the
	// defaults first if no row exists yet.
	GetFeatureFlags(ctx context.Context) (*models.FeatureFlags, error)
	UpsertFeatureFlags(ctx context.Context, flags *models.FeatureFlags) error
}

type settingsRepo struct {
	db Database
}

func NewSettingsRepository(db Database) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) GetFeatureFlags(ctx context.Context) (*models.FeatureFlags, error) {
	flags := &models.FeatureFlags{}
	query := `SELECT use_live_ai, allow_csv_import FROM settings WHERE type = $1`
	err := r.db.QueryRow(ctx, query, featureFlagsType).Scan(&flags.UseLiveAI, &flags.AllowCSVImport)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := models.DefaultFeatureFlags()
		if err := r.UpsertFeatureFlags(ctx, &defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return flags, nil
}

func (r *settingsRepo) UpsertFeatureFlags(ctx context.Context, flags *models.FeatureFlags) error {
	query := `
		INSERT INTO settings (type, use_live_ai, allow_csv_import)
		VALUES ($1, $2, $3)
		ON CONFLICT (type) DO UPDATE SET use_live_ai = $2, allow_csv_import = $3
	`
	_, err := r.db.Exec(ctx, query, featureFlagsType, flags.UseLiveAI, flags.AllowCSVImport)
	return err
}
