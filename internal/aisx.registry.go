package internal

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Entry is a component as seen by the registry.
// The public Component type satisfies it without an import cycle.
type Entry interface {
	Name() string
	IsAsync() bool
	// Renderable reports whether the entry has a render function.
	Renderable() bool
}

// Registry manages component registration with first-come-wins semantics.
// It is thread-safe for concurrent read/write access.
type Registry struct {
	entries map[string]Entry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewRegistry creates a new component registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		entries: make(map[string]Entry),
		logger:  logger,
	}
}

// Register adds an entry to the registry.
// If an entry with the same name already exists, returns an error
// and keeps the existing one.
func (r *Registry) Register(entry Entry) error {
	if entry == nil {
		return NewRegistryError(ErrMsgNilEntry, StringValueEmpty)
	}

	name := entry.Name()
	if name == StringValueEmpty {
		return NewRegistryError(ErrMsgEmptyName, StringValueEmpty)
	}
	if !entry.Renderable() {
		return NewRegistryError(ErrMsgNotRenderable, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.entries[name]; exists {
		r.logger.Warn(LogMsgComponentCollision,
			zap.String(LogFieldName, name),
			zap.String(LogFieldExisting, existing.Name()),
		)
		return NewRegistryError(ErrMsgEntryAlreadyExists, name)
	}

	r.entries[name] = entry
	r.logger.Debug(LogMsgComponentRegistered,
		zap.String(LogFieldName, name),
		zap.Bool(LogFieldAsync, entry.IsAsync()),
	)
	return nil
}

// Get retrieves an entry by name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	return entry, exists
}

// Has checks if an entry is registered under the given name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[name]
	return exists
}

// List returns all registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered entries.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// RegistryError represents a registry operation error
type RegistryError struct {
	Message string
	Name    string
}

// NewRegistryError creates a new registry error
func NewRegistryError(message, name string) *RegistryError {
	return &RegistryError{
		Message: message,
		Name:    name,
	}
}

// Collision reports whether the error is a name collision.
func (e *RegistryError) Collision() bool {
	return e.Message == ErrMsgEntryAlreadyExists
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.Name != StringValueEmpty {
		return fmt.Sprintf(ErrFmtNameMessage, e.Message, e.Name)
	}
	return e.Message
}
