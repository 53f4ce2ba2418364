package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vaultpass/keysmith/internal/model"
)

var ErrSettingsNotFound = errors.New("generator settings not found")

// SettingsRepository stores each user's password generator settings.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const upsertSettingsQuery = `
	INSERT INTO generator_settings (user_id, num_characters, min_uppercase, min_digits, min_symbols, symbol_set)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		num_characters = VALUES(num_characters),
		min_uppercase  = VALUES(min_uppercase),
		min_digits     = VALUES(min_digits),
		min_symbols    = VALUES(min_symbols),
		symbol_set     = VALUES(symbol_set),
		updated_at     = CURRENT_TIMESTAMP`

const upsertSettingsQuerySQLite = `
	INSERT INTO generator_settings (user_id, num_characters, min_uppercase, min_digits, min_symbols, symbol_set)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		num_characters = excluded.num_characters,
		min_uppercase  = excluded.min_uppercase,
		min_digits     = excluded.min_digits,
		min_symbols    = excluded.min_symbols,
		symbol_set     = excluded.symbol_set,
		updated_at     = CURRENT_TIMESTAMP`

// Save inserts or replaces the settings for settings.UserID.
func (r *SettingsRepository) Save(ctx context.Context, settings *model.GeneratorSettings) error {
	query := upsertSettingsQuery
	if r.db.Driver() == DriverSQLite {
		query = upsertSettingsQuerySQLite
	}

	_, err := r.db.ExecContext(ctx, query,
		settings.UserID,
		settings.NumCharacters,
		settings.MinUppercase,
		settings.MinDigits,
		settings.MinSymbols,
		settings.SymbolSet,
	)
	return err
}

// Get returns the saved settings for userID.
func (r *SettingsRepository) Get(ctx context.Context, userID int64) (*model.GeneratorSettings, error) {
	query := `SELECT user_id, num_characters, min_uppercase, min_digits, min_symbols, symbol_set, updated_at
		FROM generator_settings WHERE user_id = ?`

	s := &model.GeneratorSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.NumCharacters, &s.MinUppercase, &s.MinDigits, &s.MinSymbols, &s.SymbolSet, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	return s, nil
}
