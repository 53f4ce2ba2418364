package model

import "time"

// GenerateRequest represents a password generation request.
//
// Explicit requirement fields override the defaults one by one; nil leaves
// the default in place. The option flags are the simple form offered by the
// generator UI and are only used when no explicit minimums are given.
type GenerateRequest struct {
	NumCharacters *int    `json:"num_characters"`
	MinUppercase  *int    `json:"min_uppercase"`
	MinDigits     *int    `json:"min_digits"`
	MinSymbols    *int    `json:"min_symbols"`
	SymbolSet     *string `json:"symbol_set"`
	MaxUppercase  *int    `json:"max_uppercase"`
	MaxDigits     *int    `json:"max_digits"`
	MaxSymbols    *int    `json:"max_symbols"`

	Uppercase *bool `json:"uppercase"`
	Digits    *bool `json:"digits"`
	Symbols   *bool `json:"symbols"`
}

// HasRequirements reports whether any explicit requirement field is set.
func (r GenerateRequest) HasRequirements() bool {
	return r.NumCharacters != nil || r.MinUppercase != nil || r.MinDigits != nil ||
		r.MinSymbols != nil || r.SymbolSet != nil || r.MaxUppercase != nil ||
		r.MaxDigits != nil || r.MaxSymbols != nil
}

// HasOptions reports whether any UI option flag is set.
func (r GenerateRequest) HasOptions() bool {
	return r.Uppercase != nil || r.Digits != nil || r.Symbols != nil
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string  `json:"password"`
	Length   int     `json:"length"`
	Score    float64 `json:"score"`
	Strength string  `json:"strength"`
}

// GeneratorSettings are a user's saved password generation requirements.
type GeneratorSettings struct {
	UserID        int64     `json:"-"`
	NumCharacters int       `json:"num_characters"`
	MinUppercase  int       `json:"min_uppercase"`
	MinDigits     int       `json:"min_digits"`
	MinSymbols    int       `json:"min_symbols"`
	SymbolSet     string    `json:"symbol_set"`
	UpdatedAt     time.Time `json:"updated_at"`
}
