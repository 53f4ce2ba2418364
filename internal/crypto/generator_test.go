package crypto

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/vaultpass/keysmith/internal/random"
)

func countIn(s, charset string) int {
	n := 0
	for _, c := range s {
		if strings.ContainsRune(charset, c) {
			n++
		}
	}
	return n
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Requirements
		wantErr error
	}{
		{
			name:    "default requirements",
			req:     DefaultRequirements(),
			wantErr: nil,
		},
		{
			name:    "no minimums",
			req:     Requirements{NumCharacters: 6},
			wantErr: nil,
		},
		{
			name:    "digits and symbols leave too few characters",
			req:     Requirements{NumCharacters: 8, MinDigits: 5, MinSymbols: 5, SymbolSet: "!#"},
			wantErr: ErrTooFewCharacters,
		},
		{
			name:    "exactly the character floor",
			req:     Requirements{NumCharacters: 7, MinDigits: 1, MinSymbols: 1, SymbolSet: "!"},
			wantErr: nil,
		},
		{
			name:    "one below the character floor",
			req:     Requirements{NumCharacters: 6, MinDigits: 1, MinSymbols: 1, SymbolSet: "!"},
			wantErr: ErrTooFewCharacters,
		},
		{
			name:    "zero length",
			req:     Requirements{},
			wantErr: ErrTooFewCharacters,
		},
		{
			name:    "minimums exceed length",
			req:     Requirements{NumCharacters: 6, MinUppercase: 6, MinDigits: 1},
			wantErr: ErrMinimumsExceedLength,
		},
		{
			name:    "uppercase may fill the whole password",
			req:     Requirements{NumCharacters: 6, MinUppercase: 6},
			wantErr: nil,
		},
		{
			name:    "negative minimum",
			req:     Requirements{NumCharacters: 10, MinUppercase: -1},
			wantErr: ErrNegativeMinimum,
		},
		{
			name:    "too long",
			req:     Requirements{NumCharacters: MaxCharacters + 1},
			wantErr: ErrTooManyCharacters,
		},
		{
			name:    "symbols required without a symbol set",
			req:     Requirements{NumCharacters: 10, MinSymbols: 1},
			wantErr: ErrEmptySymbolSet,
		},
		{
			name:    "empty symbol set is fine when no symbols are required",
			req:     Requirements{NumCharacters: 10, MinDigits: 2},
			wantErr: nil,
		},
		{
			name:    "symbol set too large",
			req:     Requirements{NumCharacters: 10, MinSymbols: 1, SymbolSet: strings.Repeat("!", 257)},
			wantErr: ErrSymbolSetTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.req); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateInvalidReturnsEmpty(t *testing.T) {
	req := Requirements{NumCharacters: 8, MinDigits: 5, MinSymbols: 5, SymbolSet: "!#"}
	src := random.NewSequence()

	if got := Generate(src, &req); got != Invalid {
		t.Errorf("Generate() = %q, want empty string", got)
	}
	if src.Consumed() != 0 {
		t.Errorf("Generate() consumed %d bytes for an invalid request", src.Consumed())
	}
}

func TestGenerateLowercaseOnlyIsReproducible(t *testing.T) {
	req := Requirements{NumCharacters: 6}
	// 250 and 234 are at or above the rejection limit for 26 letters (234).
	src := random.NewSequence(250, 0, 27, 53, 233, 234, 25, 100)

	got := Generate(src, &req)
	if got != "abbzzw" {
		t.Errorf("Generate() = %q, want %q", got, "abbzzw")
	}
	if src.Consumed() != 8 {
		t.Errorf("Generate() consumed %d bytes, want 8", src.Consumed())
	}
}

func TestGenerateReplacementsAreReproducible(t *testing.T) {
	req := DefaultRequirements()
	src := random.NewSequence(
		0, 1, 2, 3, 4, 5, 6, 7, // lowercase fill: abcdefgh
		3, 1, // symbol at index 3: '#'
		3, 5, 255, 7, // index 3 is taken, digit at index 5: 255 rejected, '7'
		0, 25, // uppercase at index 0: 'Z'
	)

	got := Generate(src, &req)
	if got != "Zbc#e7gh" {
		t.Errorf("Generate() = %q, want %q", got, "Zbc#e7gh")
	}
	if src.Consumed() != 16 {
		t.Errorf("Generate() consumed %d bytes, want 16", src.Consumed())
	}
}

func TestGenerateNilUsesDefaults(t *testing.T) {
	src := random.NewCryptoSource()
	for i := 0; i < 50; i++ {
		password := Generate(src, nil)
		if len(password) != 8 {
			t.Fatalf("Generate() length = %d, want 8", len(password))
		}
		if countIn(password, uppercaseChars) < 1 || countIn(password, digitChars) < 1 || countIn(password, DefaultSymbolSet) < 1 {
			t.Errorf("password %q misses a required character class", password)
		}
	}
}

func TestGenerateMeetsRequirements(t *testing.T) {
	tests := []struct {
		name string
		req  Requirements
	}{
		{name: "defaults", req: DefaultRequirements()},
		{name: "ui defaults", req: Requirements{NumCharacters: 12, MinUppercase: 3, MinDigits: 1, MinSymbols: 1, SymbolSet: AllSymbols}},
		{name: "lowercase only", req: Requirements{NumCharacters: 20}},
		{name: "all uppercase", req: Requirements{NumCharacters: 16, MinUppercase: 16}},
		{name: "mostly digits", req: Requirements{NumCharacters: 30, MinDigits: 25}},
		{name: "every slot replaced", req: Requirements{NumCharacters: 10, MinUppercase: 5, MinDigits: 3, MinSymbols: 2, SymbolSet: "$"}},
		{name: "unicode symbols", req: Requirements{NumCharacters: 12, MinSymbols: 4, SymbolSet: "€£¥"}},
		{name: "maximum length", req: Requirements{NumCharacters: MaxCharacters, MinUppercase: 50, MinDigits: 50, MinSymbols: 50, SymbolSet: AllSymbols}},
		{name: "maxima are ignored", req: Requirements{NumCharacters: 10, MinUppercase: 4, MaxUppercase: 1}},
	}

	src := random.NewCryptoSource()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 25; i++ {
				password := Generate(src, &tt.req)
				if password == Invalid {
					t.Fatal("Generate() returned the invalid sentinel for a valid request")
				}
				if n := utf8.RuneCountInString(password); n != tt.req.NumCharacters {
					t.Fatalf("Generate() length = %d, want %d", n, tt.req.NumCharacters)
				}
				if n := countIn(password, uppercaseChars); n < tt.req.MinUppercase {
					t.Errorf("password %q has %d uppercase, want >= %d", password, n, tt.req.MinUppercase)
				}
				if n := countIn(password, digitChars); n < tt.req.MinDigits {
					t.Errorf("password %q has %d digits, want >= %d", password, n, tt.req.MinDigits)
				}
				if n := countIn(password, tt.req.SymbolSet); n < tt.req.MinSymbols {
					t.Errorf("password %q has %d symbols, want >= %d", password, n, tt.req.MinSymbols)
				}
				for _, c := range password {
					if !strings.ContainsRune(lowercaseChars+uppercaseChars+digitChars+tt.req.SymbolSet, c) {
						t.Errorf("password %q contains unexpected character %q", password, c)
					}
				}
			}
		})
	}
}

func TestGenerateProducesUniquePasswords(t *testing.T) {
	src := random.NewCryptoSource()
	req := Requirements{NumCharacters: 16, MinUppercase: 2, MinDigits: 2, MinSymbols: 2, SymbolSet: AllSymbols}
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		password := Generate(src, &req)
		if seen[password] {
			t.Errorf("duplicate password generated: %q", password)
		}
		seen[password] = true
	}
}
