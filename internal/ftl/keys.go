// Package ftl parses the flat "key = value" localization files used by the
// project's translation bundles and diffs their key sets.
package ftl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// KeySet : Set of localization key names. Only membership matters.
type KeySet map[string]struct{}

// NewKeySet : Collapse a list of keys into a set.
func NewKeySet(keys []string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has : Check membership of a key.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// ExtractKeys : Extract the defined keys from localization text, one
// definition per line. A "#" starts a comment running to the end of the
// line; there is no escaping of "#" inside values. Lines without "=" are
// not definitions and are skipped. Keys are returned in encounter order,
// duplicates included.
func ExtractKeys(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i != -1 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i == -1 {
			continue
		}
		keys = append(keys, strings.TrimSpace(line[:i]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// ExtractFileKeys : Extract the key set defined by a localization file.
func ExtractFileKeys(path string) (KeySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	keys, err := ExtractKeys(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewKeySet(keys), nil
}

// DiffResult : Keys separating a target file from its reference. The two
// slices are disjoint and carry no ordering guarantee.
type DiffResult struct {
	// Missing is defined in the reference but absent from the target.
	Missing []string
	// Extra is defined in the target but absent from the reference.
	Extra []string
}

// Diff : Compute the symmetric difference between a reference key set and a
// target key set.
func Diff(ref, target KeySet) DiffResult {
	var d DiffResult
	for k := range ref {
		if !target.Has(k) {
			d.Missing = append(d.Missing, k)
		}
	}
	for k := range target {
		if !ref.Has(k) {
			d.Extra = append(d.Extra, k)
		}
	}
	return d
}
