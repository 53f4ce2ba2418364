package service

import (
	"context"
	"unicode/utf8"

	zxcvbn "github.com/ccojocar/zxcvbn-go"

	"github.com/vaultpass/keysmith/internal/metrics"
	"github.com/vaultpass/keysmith/internal/model"
	"github.com/vaultpass/keysmith/internal/strength"
)

// maxEstimateLength caps the input handed to the entropy estimator, whose
// matching cost grows quickly with length.
const maxEstimateLength = 128

// StrengthService scores password strength.
type StrengthService struct {
	scorer  *strength.Scorer
	metrics *metrics.Metrics
}

// NewStrengthService creates a new StrengthService.
func NewStrengthService(scorer *strength.Scorer, m *metrics.Metrics) *StrengthService {
	return &StrengthService{scorer: scorer, metrics: m}
}

// Score rates req.Password. The heuristic score decides acceptability; the
// entropy estimate is informational.
func (s *StrengthService) Score(ctx context.Context, req model.ScoreRequest) model.ScoreResponse {
	a := s.scorer.Analyze(req.Password)
	s.metrics.ObserveScore(a.Score, len(a.WeakFragments))

	meter := strength.NewMeter(req.Password, a.Score)
	return model.ScoreResponse{
		Score:         a.Score,
		Strength:      meter.Label,
		Percent:       meter.Percent,
		Color:         meter.Color,
		Acceptable:    strength.Acceptable(a.Score),
		WeakFragments: a.WeakFragments,
		Estimate:      estimate(req.Password, req.UserInputs),
	}
}

func estimate(password string, userInputs []string) model.Estimate {
	n := utf8.RuneCountInString(password)
	if n == 0 || n > maxEstimateLength {
		return model.Estimate{}
	}

	result := zxcvbn.PasswordStrength(password, userInputs)
	return model.Estimate{
		Entropy:   result.Entropy,
		Score:     result.Score,
		CrackTime: result.CrackTimeDisplay,
	}
}
