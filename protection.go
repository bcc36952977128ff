package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const maxProtectedNameLen = 32

// Protection keeps the set of entity names seekers may never target.
// The set is cached in memory and written through to the database.
type Protection struct {
	db    *DB
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewProtection loads the protected names from db. A nil db keeps the
// set in memory only.
func NewProtection(db *DB) (*Protection, error) {
	p := &Protection{db: db, names: make(map[string]struct{})}
	if db == nil {
		return p, nil
	}
	names, err := db.ProtectedNames()
	if err != nil {
		return nil, fmt.Errorf("load protected names: %w", err)
	}
	for _, n := range names {
		p.names[n] = struct{}{}
	}
	return p, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxProtectedNameLen {
		return "", fmt.Errorf("name must be 1-%d characters", maxProtectedNameLen)
	}
	return name, nil
}

// Protect adds a name
func (p *Protection) Protect(name string, operatorID int64) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if p.db != nil {
		if err := p.db.AddProtectedName(name, operatorID); err != nil {
			return fmt.Errorf("protect %q: %w", name, err)
		}
	}
	p.mu.Lock()
	p.names[name] = struct{}{}
	p.mu.Unlock()
	return nil
}

// Unprotect removes a name
func (p *Protection) Unprotect(name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if p.db != nil {
		if err := p.db.RemoveProtectedName(name); err != nil {
			return fmt.Errorf("unprotect %q: %w", name, err)
		}
	}
	p.mu.Lock()
	delete(p.names, name)
	p.mu.Unlock()
	return nil
}

// IsProtected reports whether name is protected
func (p *Protection) IsProtected(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.names[name]
	return ok
}

// Names returns the protected names, sorted
func (p *Protection) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	list := make([]string, 0, len(p.names))
	for n := range p.names {
		list = append(list, n)
	}
	sort.Strings(list)
	return list
}

// Listener returns a target listener that vetoes any change onto a
// protected entity. Clearing a target is never vetoed.
func (p *Protection) Listener() TargetListener {
	return func(c TargetChange) bool {
		return c.New != nil && p.IsProtected(c.New.Name)
	}
}
