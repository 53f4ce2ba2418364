package service

import (
	"context"
	"errors"
	"time"

	"github.com/vaultpass/keysmith/internal/crypto"
	"github.com/vaultpass/keysmith/internal/metrics"
	"github.com/vaultpass/keysmith/internal/model"
	"github.com/vaultpass/keysmith/internal/random"
	"github.com/vaultpass/keysmith/internal/repository"
	"github.com/vaultpass/keysmith/internal/strength"
)

const (
	// DefaultOptionLength is the length used when a request only sets option flags.
	DefaultOptionLength = 12

	optionMinUppercase = 3
	optionMaxAllowed   = 1000
)

var ErrSettingsUnavailable = errors.New("generator settings are not available")

// SettingsStore persists generator settings per user.
type SettingsStore interface {
	Get(ctx context.Context, userID int64) (*model.GeneratorSettings, error)
	Save(ctx context.Context, settings *model.GeneratorSettings) error
}

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	source   random.ByteSource
	scorer   *strength.Scorer
	settings SettingsStore
	metrics  *metrics.Metrics
}

// NewGeneratorService creates a new GeneratorService. settings may be nil,
// in which case the per-user operations return ErrSettingsUnavailable.
func NewGeneratorService(source random.ByteSource, scorer *strength.Scorer, settings SettingsStore, m *metrics.Metrics) *GeneratorService {
	return &GeneratorService{
		source:   source,
		scorer:   scorer,
		settings: settings,
		metrics:  m,
	}
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	reqs := RequirementsFor(req)
	if err := crypto.Validate(reqs); err != nil {
		s.metrics.ObserveGenerated(metrics.OutcomeInvalid)
		return model.GenerateResponse{}, err
	}

	password := crypto.Generate(s.source, &reqs)
	s.metrics.ObserveGenerated(metrics.OutcomeOK)

	score := s.scorer.Score(password)
	return model.GenerateResponse{
		Password: password,
		Length:   reqs.NumCharacters,
		Score:    score,
		Strength: strength.Label(score),
	}, nil
}

// GenerateForUser generates a password using the user's saved settings
// unless the request spells out its own requirements.
func (s *GeneratorService) GenerateForUser(ctx context.Context, userID int64, req model.GenerateRequest) (model.GenerateResponse, error) {
	if req.HasRequirements() || req.HasOptions() {
		return s.Generate(ctx, req)
	}

	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return s.Generate(ctx, settingsToRequest(settings))
}

// GetSettings returns the user's saved settings, or the defaults if the user
// never saved any.
func (s *GeneratorService) GetSettings(ctx context.Context, userID int64) (model.GeneratorSettings, error) {
	if s.settings == nil {
		return model.GeneratorSettings{}, ErrSettingsUnavailable
	}

	saved, err := s.settings.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return defaultSettings(userID), nil
		}
		return model.GeneratorSettings{}, err
	}

	return *saved, nil
}

// SaveSettings validates and stores the user's settings.
func (s *GeneratorService) SaveSettings(ctx context.Context, userID int64, settings model.GeneratorSettings) (model.GeneratorSettings, error) {
	if s.settings == nil {
		return model.GeneratorSettings{}, ErrSettingsUnavailable
	}

	settings.UserID = userID
	if err := crypto.Validate(settingsToRequirements(settings)); err != nil {
		return model.GeneratorSettings{}, err
	}

	if err := s.settings.Save(ctx, &settings); err != nil {
		return model.GeneratorSettings{}, err
	}
	settings.UpdatedAt = time.Now().UTC()

	return settings, nil
}

// RequirementsFor turns a request into generator requirements. Option flags
// pick a base the way the generator UI does (three uppercase letters, one
// digit, one symbol, 12 characters); explicit fields then override the base
// one at a time.
func RequirementsFor(req model.GenerateRequest) crypto.Requirements {
	r := crypto.DefaultRequirements()
	if req.HasOptions() {
		r = optionRequirements(req)
	}

	if req.NumCharacters != nil {
		r.NumCharacters = *req.NumCharacters
	}
	if req.MinUppercase != nil {
		r.MinUppercase = *req.MinUppercase
	}
	if req.MinDigits != nil {
		r.MinDigits = *req.MinDigits
	}
	if req.MinSymbols != nil {
		r.MinSymbols = *req.MinSymbols
	}
	if req.SymbolSet != nil {
		r.SymbolSet = *req.SymbolSet
	}
	if req.MaxUppercase != nil {
		r.MaxUppercase = *req.MaxUppercase
	}
	if req.MaxDigits != nil {
		r.MaxDigits = *req.MaxDigits
	}
	if req.MaxSymbols != nil {
		r.MaxSymbols = *req.MaxSymbols
	}

	return r
}

func optionRequirements(req model.GenerateRequest) crypto.Requirements {
	r := crypto.DefaultRequirements()
	r.NumCharacters = DefaultOptionLength
	r.MinUppercase, r.MaxUppercase = optionBounds(boolOrDefault(req.Uppercase, true), optionMinUppercase)
	r.MinDigits, r.MaxDigits = optionBounds(boolOrDefault(req.Digits, true), 1)
	r.MinSymbols, r.MaxSymbols = optionBounds(boolOrDefault(req.Symbols, true), 1)
	return r
}

func optionBounds(enabled bool, minimum int) (int, int) {
	if !enabled {
		return 0, 0
	}
	return minimum, optionMaxAllowed
}

func defaultSettings(userID int64) model.GeneratorSettings {
	d := crypto.DefaultRequirements()
	return model.GeneratorSettings{
		UserID:        userID,
		NumCharacters: d.NumCharacters,
		MinUppercase:  d.MinUppercase,
		MinDigits:     d.MinDigits,
		MinSymbols:    d.MinSymbols,
		SymbolSet:     d.SymbolSet,
	}
}

func settingsToRequirements(s model.GeneratorSettings) crypto.Requirements {
	r := crypto.DefaultRequirements()
	r.NumCharacters = s.NumCharacters
	r.MinUppercase = s.MinUppercase
	r.MinDigits = s.MinDigits
	r.MinSymbols = s.MinSymbols
	r.SymbolSet = s.SymbolSet
	return r
}

func settingsToRequest(s model.GeneratorSettings) model.GenerateRequest {
	return model.GenerateRequest{
		NumCharacters: &s.NumCharacters,
		MinUppercase:  &s.MinUppercase,
		MinDigits:     &s.MinDigits,
		MinSymbols:    &s.MinSymbols,
		SymbolSet:     &s.SymbolSet,
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// IsValidationError reports whether err is a requirements validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, crypto.ErrTooFewCharacters) ||
		errors.Is(err, crypto.ErrTooManyCharacters) ||
		errors.Is(err, crypto.ErrMinimumsExceedLength) ||
		errors.Is(err, crypto.ErrNegativeMinimum) ||
		errors.Is(err, crypto.ErrEmptySymbolSet) ||
		errors.Is(err, crypto.ErrSymbolSetTooLarge)
}
