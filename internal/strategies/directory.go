package strategies

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateName rejects registering two strategies under one name.
var ErrDuplicateName = errors.New("strategy name is already in use")

// Directory is a thread-safe name index over simulated strategies. The vault
// core addresses strategies by reference; the service edge addresses them by
// name and resolves through this index.
type Directory struct {
	mu     sync.RWMutex
	byName map[string]*SimStrategy
}

// NewDirectory creates an empty strategy directory.
func NewDirectory() *Directory {
	return &Directory{byName: make(map[string]*SimStrategy)}
}

// Register indexes a strategy under its name.
func (d *Directory) Register(s *SimStrategy) error {
	if s == nil {
		return errors.New("strategy is nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byName[s.Name()]; ok {
		return errors.Join(ErrDuplicateName, fmt.Errorf("name %q", s.Name()))
	}
	d.byName[s.Name()] = s
	return nil
}

// Lookup resolves a strategy by name.
func (d *Directory) Lookup(name string) (*SimStrategy, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.byName[name]
	return s, ok
}

// Remove drops a name from the index. Unknown names are a no-op.
func (d *Directory) Remove(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byName, name)
}

// Names returns all indexed names in alphabetical order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.byName))
	for name := range d.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
