// Package store persists named definitions: rulesets and variable sets.
//
// A Store keeps raw documents keyed by kind and name. Every Put of an
// existing name bumps its version. Record wraps a document with the
// metadata the engine writes alongside it; the helpers in record.go
// convert between records and jme.RulesetDoc or variables.Document.
package store

import (
	"errors"
	"time"
)

// Kind separates the namespaces of stored definitions.
type Kind string

// Definition kinds.
const (
	KindRuleset   Kind = "ruleset"
	KindVariables Kind = "variables"
)

// Store persists definitions.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores data under (kind, name) and returns the new version.
	// The first put of a name is version 1; each later put adds one.
	Put(kind Kind, name string, data []byte) (int, error)

	// Get retrieves the latest data for (kind, name).
	// Returns ErrNotFound if it doesn't exist.
	Get(kind Kind, name string) ([]byte, error)

	// List returns every entry of a kind, ordered by name.
	// Returns an empty slice (not error) if there are none.
	List(kind Kind) ([]Info, error)

	// Delete removes an entry.
	// Returns nil if it doesn't exist.
	Delete(kind Kind, name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the data.
type Info struct {
	Kind    Kind
	Name    string
	Version int
	Updated time.Time
	Size    int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a definition doesn't exist.
	ErrNotFound = errors.New("definition not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")

	// ErrInvalidName indicates an empty definition name.
	ErrInvalidName = errors.New("invalid definition name")
)
