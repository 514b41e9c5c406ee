package symbols

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownClass is returned when a class name cannot be resolved in a snapshot.
var ErrUnknownClass = errors.New("unknown class")

// Snapshot is the complete symbol model of one version of a codebase.
// Classes and Functions are the analysed sources, in source order.
// Dependencies are only used to resolve types.
type Snapshot struct {
	Classes      []*Class    `yaml:"classes,omitempty" json:"classes,omitempty"`
	Functions    []*Function `yaml:"functions,omitempty" json:"functions,omitempty"`
	Dependencies []*Class    `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	indexOnce sync.Once
	classes   map[string]*Class
	functions map[string]*Function
}

// NewSnapshot builds a snapshot. The slices are owned by the snapshot afterwards.
func NewSnapshot(classes []*Class, functions []*Function, dependencies []*Class) *Snapshot {
	return &Snapshot{Classes: classes, Functions: functions, Dependencies: dependencies}
}

func (s *Snapshot) index() {
	s.indexOnce.Do(func() {
		s.classes = make(map[string]*Class, len(s.Classes)+len(s.Dependencies))
		s.functions = make(map[string]*Function, len(s.Functions))
		for _, c := range s.Dependencies {
			s.classes[strings.ToLower(c.Name)] = c
		}
		// Sources shadow dependencies of the same name.
		for _, c := range s.Classes {
			s.classes[strings.ToLower(c.Name)] = c
		}
		for _, f := range s.Functions {
			s.functions[strings.ToLower(f.Name)] = f
		}
	})
}

// Class finds a class-like symbol by fully-qualified name, ignoring case.
func (s *Snapshot) Class(name string) (*Class, bool) {
	s.index()
	c, ok := s.classes[strings.ToLower(strings.TrimPrefix(name, `\`))]
	return c, ok
}

// Function finds a top-level function by fully-qualified name, ignoring case.
func (s *Snapshot) Function(name string) (*Function, bool) {
	s.index()
	f, ok := s.functions[strings.ToLower(strings.TrimPrefix(name, `\`))]
	return f, ok
}

// resolve looks a class up in the snapshot first, then among language builtins.
func (s *Snapshot) resolve(name string) (*Class, bool) {
	if c, ok := s.Class(name); ok {
		return c, true
	}
	return builtinClass(name)
}

// Ancestors returns every parent class and implemented or extended interface
// of name, transitively, in breadth-first order. The class itself is not
// included.
func (s *Snapshot) Ancestors(name string) ([]string, error) {
	start, ok := s.resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	seen := map[string]struct{}{strings.ToLower(start.Name): {}}
	queue := directAncestors(start)
	var out []string

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		key := strings.ToLower(next)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		c, ok := s.resolve(next)
		if !ok {
			return nil, fmt.Errorf("%w: %s (ancestor of %s)", ErrUnknownClass, next, name)
		}
		out = append(out, c.Name)
		queue = append(queue, directAncestors(c)...)
	}

	return out, nil
}

// IsSubclassOf reports whether name equals ancestor or inherits from it.
// The hierarchy is walked breadth-first and a match ends the walk, so an
// unresolvable ancestor on another branch only matters when no match is
// found. In that case the first unresolvable name is reported.
func (s *Snapshot) IsSubclassOf(name, ancestor string) (bool, error) {
	if strings.EqualFold(name, ancestor) {
		return true, nil
	}
	start, ok := s.resolve(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	target := strings.ToLower(strings.TrimPrefix(ancestor, `\`))
	seen := map[string]struct{}{strings.ToLower(start.Name): {}}
	queue := directAncestors(start)
	var unresolved error

	for len(queue) > 0 {
		next := strings.TrimPrefix(queue[0], `\`)
		queue = queue[1:]

		key := strings.ToLower(next)
		if key == target {
			return true, nil
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		c, ok := s.resolve(next)
		if !ok {
			if unresolved == nil {
				unresolved = fmt.Errorf("%w: %s (ancestor of %s)", ErrUnknownClass, next, name)
			}
			continue
		}
		if strings.EqualFold(c.Name, target) {
			return true, nil
		}
		queue = append(queue, directAncestors(c)...)
	}

	return false, unresolved
}

func directAncestors(c *Class) []string {
	var names []string
	if c.Parent != "" {
		names = append(names, c.Parent)
	}
	return append(names, c.Interfaces...)
}
