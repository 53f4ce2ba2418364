// Package strength scores how hard a password is to guess.
//
// The score rewards using several character classes and many distinct,
// non-sequential characters, and punishes fragments found in a dictionary of
// commonly used passwords. Around 100 is a strong password; anything below
// AcceptableScore should be refused for account passwords.
package strength

import (
	"regexp"
	"strings"
	"sync"

	"github.com/vaultpass/keysmith/internal/bloom"
	"github.com/vaultpass/keysmith/internal/dictionary"
)

const (
	// MinLength is the shortest password that gets a real score.
	MinLength = 8
	// TooShort is the score of passwords shorter than MinLength.
	TooShort = -1.0

	// AcceptableScore is the lowest score accepted for account passwords.
	AcceptableScore = 33

	classScore      = 2
	weakPenalty     = 7
	normalizeFactor = 100.0 / 18.0
)

var classes = []*regexp.Regexp{
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`\d`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`\W`), // symbols, whitespace and any non-ASCII character
}

// Analysis breaks a score down into its parts. Raw is the score before
// normalization.
type Analysis struct {
	Classes       int
	Diversity     float64
	WeakFragments []string
	Raw           float64
	Score         float64
}

// Scorer scores passwords against a weak password filter. A Scorer is safe
// for concurrent use as long as its filter is no longer being modified.
type Scorer struct {
	filter *bloom.Filter
}

// NewScorer creates a Scorer. A nil filter disables the dictionary check.
func NewScorer(filter *bloom.Filter) *Scorer {
	return &Scorer{filter: filter}
}

var defaultScorer = sync.OnceValue(func() *Scorer {
	return NewScorer(dictionary.Default())
})

// Default returns the Scorer backed by the embedded weak password list.
func Default() *Scorer {
	return defaultScorer()
}

// Score scores password with the default Scorer.
func Score(password string) float64 {
	return Default().Score(password)
}

// Validate reports whether password is strong enough for an account.
func Validate(password string) bool {
	return Acceptable(Score(password))
}

// Acceptable reports whether score meets AcceptableScore.
func Acceptable(score float64) bool {
	return score >= AcceptableScore
}

// Score returns the normalized score of password.
func (s *Scorer) Score(password string) float64 {
	return s.Analyze(password).Score
}

// Analyze scores password and reports how the score was reached. Passwords
// shorter than MinLength characters, including the empty string, score
// TooShort without further analysis.
func (s *Scorer) Analyze(password string) Analysis {
	runes := []rune(password)
	if len(runes) < MinLength {
		return Analysis{Raw: TooShort, Score: TooShort}
	}

	var a Analysis
	for _, re := range classes {
		if re.MatchString(password) {
			a.Classes++
		}
	}

	// Every occurrence bumps the count, but adjacent repeats and one-off
	// runs ("aa", "ab", "12") add nothing.
	counts := make(map[rune]int, len(runes))
	for i, c := range runes {
		counts[c]++
		if i > 0 && abs(c-runes[i-1]) < 2 {
			continue
		}
		a.Diversity += 1 / float64(counts[c])
	}

	a.WeakFragments = s.weakFragments(runes)

	a.Raw = -2*classScore +
		float64(a.Classes*classScore) +
		a.Diversity -
		float64(len(a.WeakFragments)*weakPenalty)
	a.Score = a.Raw * normalizeFactor
	return a
}

// weakFragments returns the dictionary fragments found in runes. Only the
// shortest hit starting at a given offset counts, and the search resumes
// after it so overlapping fragments aren't punished twice.
func (s *Scorer) weakFragments(runes []rune) []string {
	if s.filter == nil {
		return nil
	}

	var found []string
	for begin := 0; begin <= len(runes)-dictionary.MinFragment; {
		hit := false
		last := min(begin+dictionary.MaxFragment, len(runes))
		for end := begin + dictionary.MinFragment; end <= last; end++ {
			frag := strings.ToLower(string(runes[begin:end]))
			if s.filter.Test(frag) {
				found = append(found, frag)
				begin = end
				hit = true
				break
			}
		}
		if !hit {
			begin++
		}
	}
	return found
}

func abs(r rune) rune {
	if r < 0 {
		return -r
	}
	return r
}
