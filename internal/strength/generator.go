package strength

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	genUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	genLower   = "abcdefghijklmnopqrstuvwxyz"
	genDigits  = "0123456789"
	genSymbols = "!@#$%^&*()-_=+[]{};:,.?"
)

// GenerateOptions selects character classes for Generate. At least one
// class must be enabled.
type GenerateOptions struct {
	Length  int
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

// DefaultGenerateOptions produces 16-character passwords drawing from all
// four classes.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Length: 16, Upper: true, Lower: true, Digits: true, Symbols: true}
}

// Generate returns a random password. Every enabled class is guaranteed to
// appear at least once so generated passwords always pass MeetsMinimum when
// all classes are enabled and Length >= 8.
func Generate(opts GenerateOptions) (string, error) {
	var classes []string
	if opts.Upper {
		classes = append(classes, genUpper)
	}
	if opts.Lower {
		classes = append(classes, genLower)
	}
	if opts.Digits {
		classes = append(classes, genDigits)
	}
	if opts.Symbols {
		classes = append(classes, genSymbols)
	}
	if len(classes) == 0 {
		return "", errors.New("no character classes enabled")
	}
	if opts.Length < len(classes) {
		return "", errors.New("length too short for enabled classes")
	}

	var alphabet string
	for _, c := range classes {
		alphabet += c
	}

	out := make([]byte, opts.Length)
	// one guaranteed pick per class, the rest from the full alphabet
	for i := range out {
		pool := alphabet
		if i < len(classes) {
			pool = classes[i]
		}
		idx, err := randInt(len(pool))
		if err != nil {
			return "", err
		}
		out[i] = pool[idx]
	}

	// shuffle so the guaranteed picks are not positional
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
