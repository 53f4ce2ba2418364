package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/keysmith/internal/bloom"
)

func TestFragments(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  []string
	}{
		{name: "too short", entry: "abc", want: nil},
		{name: "short after stripping", entry: "a-b-c", want: nil},
		{name: "exact minimum", entry: "root", want: []string{"root"}},
		{name: "lowercased", entry: "DraGon", want: []string{"dragon"}},
		{name: "non-word stripped", entry: "p@ssw0rd!", want: []string{"pssw0rd"}},
		{name: "exact maximum", entry: "1234567890", want: []string{"1234567890"}},
		{name: "windows for long entries", entry: "qwertyuiopas", want: []string{"qwertyuiop", "wertyuiopa", "ertyuiopas"}},
		{name: "surrounding whitespace", entry: "  monkey \r", want: []string{"monkey"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fragments(tt.entry))
		})
	}
}

func TestBuild(t *testing.T) {
	f, n, err := Build(strings.NewReader("dragon\nabc\nsunshine\n\nbasketball123\n"), 1<<16, 8)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	for _, w := range []string{"dragon", "sunshine", "basketball", "asketball1", "sketball12", "ketball123"} {
		assert.True(t, f.Test(w), w)
	}
	assert.False(t, f.Test("abc"))
}

func TestBuildRejectsBadSize(t *testing.T) {
	_, _, err := Build(strings.NewReader("dragon"), 1000, 8)
	assert.ErrorIs(t, err, bloom.ErrInvalidSize)
}

func TestDefaultContainsEmbeddedList(t *testing.T) {
	f := Default()
	require.NotNil(t, f)
	assert.Same(t, f, Default())
	assert.Equal(t, uint64(bloom.DefaultBits), f.Bits())

	for _, line := range strings.Split(weakPasswords, "\n") {
		for _, frag := range Fragments(line) {
			assert.True(t, f.Test(frag), frag)
		}
	}
	assert.True(t, f.Test("password"))
	assert.False(t, f.Test("aaaa"))
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weak.bloom")

	data, err := Default().MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Buckets(), f.Buckets())
	assert.True(t, f.Test("letmein"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bloom"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "corrupt.bloom")
	require.NoError(t, os.WriteFile(path, []byte("not a filter"), 0o600))
	_, err = Load(path)
	assert.ErrorIs(t, err, bloom.ErrMalformed)
}

func TestOpenWithoutPathUsesDefault(t *testing.T) {
	f, err := Open("")
	require.NoError(t, err)
	assert.Same(t, Default(), f)
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("hunter2\ncorrecthorse\n"), 0o600))

	f, err := LoadCorpus(path, 1<<12, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<12), f.Bits())
	assert.True(t, f.Test("hunter2"))
	assert.True(t, f.Test("correcthor"))
	assert.True(t, f.Test("orrecthors"))

	_, err = LoadCorpus(path, 1000, 4)
	assert.ErrorIs(t, err, bloom.ErrInvalidSize)

	_, err = LoadCorpus(filepath.Join(t.TempDir(), "missing.txt"), 1<<12, 4)
	assert.Error(t, err)
}
