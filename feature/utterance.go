// Package feature turns text utterances into dense numeric feature vectors
// (n-gram and skip-gram counts over a vocabulary) and normalizes vector
// datasets before mixture training.
package feature

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/unicode/norm"
)

// Utterance is a tokenized utterance.
type Utterance []string

// Tokenize applies NFKC normalization and lower-casing, then splits s into
// words with UAX#29 word segmentation. Whitespace and punctuation segments
// are dropped.
func Tokenize(s string) []string {
	s = strings.ToLower(norm.NFKC.String(s))
	toks := words.FromString(s)
	var tokens []string
	for toks.Next() {
		tok := toks.Value()
		if isWordToken(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isWordToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) {
			return true
		}
	}
	return false
}

// NewUtterance tokenizes text.
func NewUtterance(text string) Utterance {
	return Utterance(Tokenize(text))
}

func (u Utterance) String() string {
	return strings.Join(u, " ")
}

// Len returns the number of tokens.
func (u Utterance) Len() int { return len(u) }

// Index returns the position of the first occurrence of seq in u.
func (u Utterance) Index(seq []string) (int, bool) {
	if len(seq) == 0 || len(seq) > len(u) {
		return 0, false
	}
outer:
	for i := 0; i+len(seq) <= len(u); i++ {
		for j, s := range seq {
			if u[i+j] != s {
				continue outer
			}
		}
		return i, true
	}
	return 0, false
}

// Contains reports whether seq occurs in u as a contiguous subsequence.
func (u Utterance) Contains(seq []string) bool {
	_, ok := u.Index(seq)
	return ok
}

// Replace returns u with the first occurrence of seq replaced by repl.
// u is returned unchanged when seq does not occur.
func (u Utterance) Replace(seq, repl []string) Utterance {
	i, ok := u.Index(seq)
	if !ok {
		return u
	}
	out := make(Utterance, 0, len(u)-len(seq)+len(repl))
	out = append(out, u[:i]...)
	out = append(out, repl...)
	return append(out, u[i+len(seq):]...)
}

// ScanUtterances reads lines of the form "key => utterance" and calls fn for
// each. Blank lines are skipped. limit > 0 stops after that many lines.
func ScanUtterances(r io.Reader, limit int, fn func(key string, u Utterance) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		if limit > 0 && lineNum > limit {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, text, ok := strings.Cut(line, "=>")
		if !ok {
			return fmt.Errorf("line %d: missing \"=>\" separator", lineNum)
		}
		if err := fn(strings.TrimSpace(key), NewUtterance(text)); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

// LoadUtterances reads a whole utterance file into memory, keyed by the text
// before "=>". Later duplicates replace earlier ones.
func LoadUtterances(r io.Reader, limit int) (map[string]Utterance, error) {
	utts := make(map[string]Utterance)
	err := ScanUtterances(r, limit, func(key string, u Utterance) error {
		utts[key] = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return utts, nil
}

// LoadUtterancesFile is a convenience wrapper that opens a file path.
func LoadUtterancesFile(path string, limit int) (map[string]Utterance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadUtterances(f, limit)
}
