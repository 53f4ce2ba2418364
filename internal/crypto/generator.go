package crypto

import (
	"errors"
	"unicode/utf8"

	"github.com/vaultpass/keysmith/internal/random"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"

	// DefaultSymbolSet is used when requirements don't name their own symbols.
	DefaultSymbolSet = "!#"
	// AllSymbols lists the symbols callers normally pick a SymbolSet from.
	AllSymbols = "!@#$%^&*()"

	// MinCharacters is the least number of characters left over once the
	// required digits and symbols are placed. Fewer than this and the
	// password doesn't carry enough entropy.
	MinCharacters = 5
	// MaxCharacters is the longest password the generator can produce; slot
	// selection samples indexes from a single byte.
	MaxCharacters = random.MaxValue

	// Invalid is returned by Generate for requirements that can't be met.
	Invalid = ""

	// Unbounded marks a maximum that is not set.
	Unbounded = -1
)

var (
	ErrTooFewCharacters     = errors.New("password must keep at least 5 characters besides required digits and symbols")
	ErrTooManyCharacters    = errors.New("password length must be at most 256")
	ErrMinimumsExceedLength = errors.New("required uppercase, digits and symbols exceed password length")
	ErrNegativeMinimum      = errors.New("minimum character counts must not be negative")
	ErrEmptySymbolSet       = errors.New("symbol set must not be empty when symbols are required")
	ErrSymbolSetTooLarge    = errors.New("symbol set must have at most 256 characters")
)

// Requirements describes the composition a generated password must satisfy.
//
// The Max fields are accepted for compatibility with stored site rules but
// are not enforced: a password may contain more uppercase letters, digits or
// symbols than they allow.
type Requirements struct {
	NumCharacters int
	MinUppercase  int
	MinDigits     int
	MinSymbols    int
	SymbolSet     string

	MaxUppercase int
	MaxDigits    int
	MaxSymbols   int
}

// DefaultRequirements returns 8 characters with at least one uppercase
// letter, one digit and one symbol from DefaultSymbolSet.
func DefaultRequirements() Requirements {
	return Requirements{
		NumCharacters: 8,
		MinUppercase:  1,
		MinDigits:     1,
		MinSymbols:    1,
		SymbolSet:     DefaultSymbolSet,
		MaxUppercase:  Unbounded,
		MaxDigits:     Unbounded,
		MaxSymbols:    Unbounded,
	}
}

// Validate reports why req can't be satisfied, or nil if it can.
func Validate(req Requirements) error {
	if req.MinUppercase < 0 || req.MinDigits < 0 || req.MinSymbols < 0 {
		return ErrNegativeMinimum
	}
	if req.NumCharacters-(req.MinDigits+req.MinSymbols) < MinCharacters {
		return ErrTooFewCharacters
	}
	if req.MinDigits+req.MinUppercase+req.MinSymbols > req.NumCharacters {
		return ErrMinimumsExceedLength
	}
	if req.NumCharacters > MaxCharacters {
		return ErrTooManyCharacters
	}
	if req.MinSymbols > 0 {
		n := utf8.RuneCountInString(req.SymbolSet)
		if n == 0 {
			return ErrEmptySymbolSet
		}
		if n > random.MaxValue {
			return ErrSymbolSetTooLarge
		}
	}
	return nil
}

// Generate creates a password meeting req using randomness from src. A nil
// req means DefaultRequirements.
//
// Requirements that fail Validate yield Invalid, the empty string. A valid
// request always has at least MinCharacters characters, so callers can
// safely treat an empty result as a rejected request.
func Generate(src random.ByteSource, req *Requirements) string {
	r := DefaultRequirements()
	if req != nil {
		r = *req
	}
	if Validate(r) != nil {
		return Invalid
	}

	buf := make([]rune, r.NumCharacters)
	lower := []rune(lowercaseChars)
	for i := range buf {
		buf[i] = lower[random.UnbiasedUnder(src, len(lower))]
	}

	// Each entry is the alphabet one more slot has to be filled from.
	// Entries are taken from the end.
	toReplace := make([][]rune, 0, r.MinUppercase+r.MinDigits+r.MinSymbols)
	for i := 0; i < r.MinUppercase; i++ {
		toReplace = append(toReplace, []rune(uppercaseChars))
	}
	for i := 0; i < r.MinDigits; i++ {
		toReplace = append(toReplace, []rune(digitChars))
	}
	symbols := []rune(r.SymbolSet)
	for i := 0; i < r.MinSymbols; i++ {
		toReplace = append(toReplace, symbols)
	}

	replaced := make(map[int]bool, len(toReplace))
	for len(toReplace) > 0 {
		i := random.UnbiasedUnder(src, len(buf))
		for replaced[i] {
			i = random.UnbiasedUnder(src, len(buf))
		}
		replaced[i] = true

		candidates := toReplace[len(toReplace)-1]
		toReplace = toReplace[:len(toReplace)-1]
		buf[i] = candidates[random.UnbiasedUnder(src, len(candidates))]
	}

	return string(buf)
}
