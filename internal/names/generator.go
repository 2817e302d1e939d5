package names

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Defaults applied when the corresponding Options field is zero.
const (
	DefaultMaxNameLength = 100
	DefaultMaxAttempts   = 9999
	DefaultExtension     = ".py"
	DefaultSafeChars     = "abcdefghijklmnopqrstuvwxyz0123456789_-."

	// FallbackBase replaces a label that sanitizes to nothing.
	FallbackBase = "function"

	// MaxBaseLength bounds the sanitized label before the suffix is added.
	MaxBaseLength = 50

	candidateSuffix = "_example_"
)

// Sentinel errors for name generation.
var (
	ErrInvalidInput   = errors.New("invalid label")
	ErrExhausted      = errors.New("unable to generate unique filename")
	ErrInvalidOptions = errors.New("invalid generator options")
)

// InvalidInputError describes a label that cannot be turned into a file name.
type InvalidInputError struct {
	Label  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid label %q: %s", e.Label, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// ExhaustedError is returned once the counter passes the attempt ceiling.
// The generator that returned it stays exhausted.
type ExhaustedError struct {
	Counter     int
	MaxAttempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("unable to generate unique filename: counter %d exceeds ceiling %d", e.Counter, e.MaxAttempts)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrExhausted
}

// Options configures a Generator.
type Options struct {
	// Dir is joined with each generated name to form its path.
	Dir string

	// MaxNameLength is the longest name Validate accepts (default 100).
	MaxNameLength int

	// Extensions lists the allowed extensions. The first one is appended
	// to every candidate (default [".py"]).
	Extensions []string

	// SafeChars is the set of characters kept by sanitization.
	SafeChars string

	// MaxAttempts is the counter ceiling (default 9999).
	MaxAttempts int

	// Start is the first counter value (default 1).
	Start int

	// Issued pre-seeds the set of names treated as already taken.
	Issued []string
}

// Generator produces unique, validated file names from untrusted labels.
// It is safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	dir       string
	maxLen    int
	exts      []string
	safe      map[rune]bool
	ceiling   int
	counter   int
	issued    map[string]bool
	exhausted bool
}

// NewGenerator creates a Generator, filling unset options with defaults.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.MaxNameLength == 0 {
		opts.MaxNameLength = DefaultMaxNameLength
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{DefaultExtension}
	}
	if opts.SafeChars == "" {
		opts.SafeChars = DefaultSafeChars
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Start == 0 {
		opts.Start = 1
	}

	if opts.MaxNameLength < 0 || opts.MaxAttempts < 0 || opts.Start < 0 {
		return nil, fmt.Errorf("%w: limits must be positive", ErrInvalidOptions)
	}
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return nil, fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidOptions, ext)
		}
	}

	g := &Generator{
		dir:     opts.Dir,
		maxLen:  opts.MaxNameLength,
		exts:    append([]string(nil), opts.Extensions...),
		safe:    charSet(opts.SafeChars),
		ceiling: opts.MaxAttempts,
		counter: opts.Start,
		issued:  make(map[string]bool, len(opts.Issued)),
	}
	for _, name := range opts.Issued {
		g.issued[name] = true
	}

	return g, nil
}

// Next returns a fresh file name for label and its path inside the output
// directory. No two calls on the same Generator return the same name.
func (g *Generator) Next(label string) (name, path string, err error) {
	if strings.TrimSpace(label) == "" {
		return "", "", &InvalidInputError{Label: label, Reason: "must be a non-empty string"}
	}

	base := sanitize(label, g.safe)

	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		if g.exhausted || g.counter > g.ceiling {
			g.exhausted = true
			return "", "", &ExhaustedError{Counter: g.counter, MaxAttempts: g.ceiling}
		}

		candidate := g.candidate(base)
		if g.valid(candidate) && !g.issued[candidate] {
			g.issued[candidate] = true
			g.counter++
			return candidate, filepath.Join(g.dir, candidate), nil
		}

		g.counter++
	}
}

// Counter returns the value the next candidate will use.
func (g *Generator) Counter() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// Issued returns the number of names handed out, including pre-seeded ones.
func (g *Generator) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.issued)
}

// Dir returns the output directory names are joined with.
func (g *Generator) Dir() string {
	return g.dir
}

// Validate reports whether name passes the generator's validation rules.
func (g *Generator) Validate(name string) bool {
	return g.valid(name)
}

func (g *Generator) candidate(base string) string {
	return fmt.Sprintf("%s%s%03d%s", base, candidateSuffix, g.counter, g.exts[0])
}

func (g *Generator) valid(name string) bool {
	return Validate(name, g.maxLen, g.exts)
}

// Validate checks a candidate against the length, traversal and extension rules.
func Validate(name string, maxLen int, exts []string) bool {
	if len(name) > maxLen {
		return false
	}

	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}

	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Sanitize turns a label into a safe base name using the default character set.
func Sanitize(label string) string {
	return sanitize(label, defaultSafe)
}

// SanitizeWith is Sanitize with a custom safe character set.
func SanitizeWith(label, safeChars string) string {
	return sanitize(label, charSet(safeChars))
}

var defaultSafe = charSet(DefaultSafeChars)

func sanitize(label string, safe map[rune]bool) string {
	s := strings.TrimSuffix(label, "()")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		if safe[r] {
			b.WriteRune(r)
		}
	}

	out := []rune(b.String())
	if len(out) == 0 {
		return FallbackBase
	}
	if len(out) > MaxBaseLength {
		out = out[:MaxBaseLength]
	}
	return string(out)
}

func charSet(chars string) map[rune]bool {
	set := make(map[rune]bool, len(chars))
	for _, r := range chars {
		set[r] = true
	}
	return set
}
