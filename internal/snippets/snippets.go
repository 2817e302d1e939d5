// Package snippets provides the catalog of example code typed into the editor.
package snippets

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Content limits.
const (
	DefaultMaxContentLength = 10000
	MaxDescriptionLength    = 500
	MaxExampleLength        = 5000

	truncationMarker = "\n# ... (truncated)"
	timestampLayout  = "2006-01-02 15:04:05"
)

// Sentinel errors for catalog operations.
var (
	ErrEmptyCatalog   = errors.New("snippet catalog is empty")
	ErrInvalidSnippet = errors.New("invalid snippet")
	ErrOutOfRange     = errors.New("snippet index out of range")
)

// Snippet is one catalog entry.
type Snippet struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Example     string `yaml:"example"`
}

// Validate checks that every field is set and within limits.
func (s Snippet) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidSnippet)
	case strings.TrimSpace(s.Description) == "":
		return fmt.Errorf("%w: %s: description is empty", ErrInvalidSnippet, s.Name)
	case strings.TrimSpace(s.Example) == "":
		return fmt.Errorf("%w: %s: example is empty", ErrInvalidSnippet, s.Name)
	case utf8.RuneCountInString(s.Description) > MaxDescriptionLength:
		return fmt.Errorf("%w: %s: description exceeds %d characters", ErrInvalidSnippet, s.Name, MaxDescriptionLength)
	case utf8.RuneCountInString(s.Example) > MaxExampleLength:
		return fmt.Errorf("%w: %s: example exceeds %d characters", ErrInvalidSnippet, s.Name, MaxExampleLength)
	}
	return nil
}

// Catalog is an ordered collection of snippets.
type Catalog struct {
	entries []Snippet
}

// New creates a catalog from the given entries, in order.
func New(entries ...Snippet) *Catalog {
	return &Catalog{entries: append([]Snippet(nil), entries...)}
}

// Default returns a catalog holding the built-in entries.
func Default() *Catalog {
	return New(Builtin()...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// All returns a copy of the entries.
func (c *Catalog) All() []Snippet {
	return append([]Snippet(nil), c.entries...)
}

// Get returns the entry at index i.
func (c *Catalog) Get(i int) (Snippet, error) {
	if i < 0 || i >= len(c.entries) {
		return Snippet{}, fmt.Errorf("%w: %d (catalog has %d entries)", ErrOutOfRange, i, len(c.entries))
	}
	return c.entries[i], nil
}

// Pick returns a uniformly random entry.
func (c *Catalog) Pick(r *rand.Rand) (Snippet, error) {
	if len(c.entries) == 0 {
		return Snippet{}, ErrEmptyCatalog
	}
	if r == nil {
		return c.entries[rand.IntN(len(c.entries))], nil
	}
	return c.entries[r.IntN(len(c.entries))], nil
}

// Merge appends the entries of other.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	c.entries = append(c.entries, other.entries...)
}

// snippetFile is the on-disk format for additional snippets.
type snippetFile struct {
	Snippets []Snippet `yaml:"snippets"`
}

// LoadFile reads a YAML snippet file.
func LoadFile(path string) (*Catalog, error) {
	//nolint:gosec // G304: path comes from user configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snippet file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML snippet data and validates every entry.
func Parse(data []byte) (*Catalog, error) {
	var sf snippetFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("decode snippet file: %w", err)
	}

	for i, s := range sf.Snippets {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("snippet %d: %w", i, err)
		}
	}

	return New(sf.Snippets...), nil
}

// Render builds the file content typed for s. Content longer than maxLen is
// truncated and marked; maxLen <= 0 uses DefaultMaxContentLength.
func Render(s Snippet, now time.Time, maxLen int) (content string, truncated bool) {
	if maxLen <= 0 {
		maxLen = DefaultMaxContentLength
	}

	content = fmt.Sprintf("# %s: %s\n# Generated by CodeWeaver on %s\n# Example:\n\n%s\n\n# End of example",
		s.Name, s.Description, now.Format(timestampLayout), s.Example)

	runes := []rune(content)
	if len(runes) <= maxLen {
		return content, false
	}
	return string(runes[:maxLen]) + truncationMarker, true
}
