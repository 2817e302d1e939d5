// Package history records every file the bot tried to create.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for history operations.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrAlreadyExists = errors.New("entry already exists")
	ErrLockTimeout   = errors.New("failed to acquire history lock")
	ErrInvalidStatus = errors.New("invalid status")
)

// Status is the outcome of one attempt to write a snippet.
type Status string

const (
	// StatusCreated means the saved file was found on disk.
	StatusCreated Status = "created"
	// StatusMissing means the input sequence completed but no file appeared.
	StatusMissing Status = "missing"
	// StatusFailed means the attempt was aborted with an error.
	StatusFailed Status = "failed"
)

// ParseStatus converts s to a Status. The empty string is accepted and
// matches every status in a ListFilter.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case "", StatusCreated, StatusMissing, StatusFailed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Entry is one attempt to write a snippet to a file.
type Entry struct {
	ID        string    `json:"id"`
	Run       string    `json:"run"`     // Run name the attempt belongs to
	Snippet   string    `json:"snippet"` // Snippet label, e.g. "len()"
	Name      string    `json:"name"`    // Generated file name (empty if naming failed)
	Path      string    `json:"path"`    // Absolute path typed into the save dialog
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilter filters history queries.
type ListFilter struct {
	Run    string // Filter by run name (empty = all)
	Status Status // Filter by status (empty = all)
	Limit  int    // Return only the newest Limit entries (0 = all)
}

// RunSummary aggregates the entries of one run.
type RunSummary struct {
	Run     string
	Created int
	Missing int
	Failed  int
	First   time.Time
	Last    time.Time
}

// Total returns the number of attempts in the run.
func (s RunSummary) Total() int {
	return s.Created + s.Missing + s.Failed
}

// Store provides persistent storage for history entries.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/store.go . Store
type Store interface {
	// Add appends an entry. An empty ID is filled with a random UUID and a
	// zero CreatedAt with the current time.
	// Returns ErrAlreadyExists if an entry with the same ID exists.
	Add(ctx context.Context, entry Entry) (Entry, error)

	// Get retrieves an entry by ID.
	// Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns entries matching the filter, oldest first.
	List(ctx context.Context, filter ListFilter) ([]Entry, error)

	// Runs summarizes each run, most recent first.
	Runs(ctx context.Context) ([]RunSummary, error)

	// Clear removes entries for run, or all entries when run is empty.
	// Returns the number of entries removed.
	Clear(ctx context.Context, run string) (int, error)
}
