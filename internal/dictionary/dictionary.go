// Package dictionary turns a list of commonly used passwords into the Bloom
// filter the strength scorer checks password fragments against.
package dictionary

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/vaultpass/keysmith/internal/bloom"
)

const (
	// MinFragment and MaxFragment bound the fragment lengths the scorer tests.
	MinFragment = 4
	MaxFragment = 10
)

//go:embed weak_passwords.txt
var weakPasswords string

var nonWord = regexp.MustCompile(`\W`)

var (
	defaultOnce   sync.Once
	defaultFilter *bloom.Filter
)

// Build reads one password per line from r and inserts it into a new filter.
// Entries are lowercased and stripped of non-word characters. Entries between
// MinFragment and MaxFragment characters are inserted whole, longer ones as
// every MaxFragment-sized window, shorter ones are skipped.
func Build(r io.Reader, numBits uint32, k int) (*bloom.Filter, int, error) {
	f, err := bloom.New(numBits, k)
	if err != nil {
		return nil, 0, err
	}

	inserted := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, frag := range Fragments(scanner.Text()) {
			f.Add(frag)
			inserted++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading password list: %w", err)
	}

	return f, inserted, nil
}

// Fragments returns the strings Build inserts for a single corpus entry.
func Fragments(entry string) []string {
	w := []rune(nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(entry)), ""))
	switch {
	case len(w) < MinFragment:
		return nil
	case len(w) <= MaxFragment:
		return []string{string(w)}
	}

	frags := make([]string, 0, len(w)-MaxFragment+1)
	for i := 0; i+MaxFragment <= len(w); i++ {
		frags = append(frags, string(w[i:i+MaxFragment]))
	}
	return frags
}

// Default returns the filter built from the embedded password list. It is
// built on first use and shared afterwards.
func Default() *bloom.Filter {
	defaultOnce.Do(func() {
		f, n, err := Build(strings.NewReader(weakPasswords), bloom.DefaultBits, bloom.DefaultHashes)
		if err != nil {
			// The embedded list and default sizes are fixed, so this is a build defect.
			panic(fmt.Sprintf("dictionary: building default filter: %v", err))
		}
		slog.Debug("weak password filter built", "fragments", n, "bits", f.Bits(), "hashes", f.K())
		defaultFilter = f
	})
	return defaultFilter
}

// Load reads a serialized filter from path.
func Load(path string) (*bloom.Filter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bloom filter: %w", err)
	}
	defer file.Close()

	var f bloom.Filter
	if _, err := f.ReadFrom(bufio.NewReader(file)); err != nil {
		return nil, fmt.Errorf("loading bloom filter %s: %w", path, err)
	}
	return &f, nil
}

// LoadCorpus builds a filter from the password list at path.
func LoadCorpus(path string, numBits uint32, k int) (*bloom.Filter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening password list: %w", err)
	}
	defer file.Close()

	f, n, err := Build(file, numBits, k)
	if err != nil {
		return nil, fmt.Errorf("building filter from %s: %w", path, err)
	}
	slog.Info("weak password filter built", "path", path, "fragments", n, "bits", f.Bits(), "hashes", f.K())
	return f, nil
}

// Open returns the serialized filter at path, or the embedded default when
// path is empty.
func Open(path string) (*bloom.Filter, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
