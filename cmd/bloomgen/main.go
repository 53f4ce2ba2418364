// Command bloomgen builds the serialized weak password filter loaded through
// BLOOM_FILTER_PATH.
//
// Usage:
//
//	bloomgen [-bits n] [-k n] -out weak.bloom [corpus.txt]
//
// The corpus is read from stdin when no file is given.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vaultpass/keysmith/internal/bloom"
	"github.com/vaultpass/keysmith/internal/dictionary"
)

func main() {
	if err := run(os.Args[1:], os.Stdin); err != nil {
		slog.Error("bloomgen failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader) error {
	fs := flag.NewFlagSet("bloomgen", flag.ContinueOnError)
	bits := fs.Uint("bits", bloom.DefaultBits, "filter size in bits, a power of two")
	k := fs.Int("k", bloom.DefaultHashes, "number of hash functions")
	out := fs.String("out", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-out is required")
	}
	if *bits > 1<<32-1 {
		return fmt.Errorf("-bits %d does not fit in 32 bits", *bits)
	}

	corpus, err := readCorpus(fs.Arg(0), stdin)
	if err != nil {
		return err
	}

	f, n, err := dictionary.Build(bytes.NewReader(corpus), uint32(*bits), *k)
	if err != nil {
		return err
	}

	if err := writeFilter(*out, f); err != nil {
		return err
	}

	if err := verify(*out, corpus); err != nil {
		return err
	}

	slog.Info("filter written", "out", *out, "fragments", n, "bits", f.Bits(), "hashes", f.K())
	return nil
}

func readCorpus(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeFilter(path string, f *bloom.Filter) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	if _, err := f.WriteTo(w); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// verify reloads the written filter and checks every corpus fragment is
// still reported present.
func verify(path string, corpus []byte) error {
	f, err := dictionary.Load(path)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(corpus))
	for scanner.Scan() {
		for _, frag := range dictionary.Fragments(scanner.Text()) {
			if !f.Test(frag) {
				return fmt.Errorf("verification failed: %q missing after reload", frag)
			}
		}
	}
	return scanner.Err()
}
