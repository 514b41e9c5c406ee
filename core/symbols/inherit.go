package symbols

import "strings"

// lineage returns c followed by the used traits, parents and interfaces
// that can be resolved in s, nearest first. Unresolvable names are skipped.
func (s *Snapshot) lineage(c *Class) []*Class {
	out := []*Class{c}
	if s == nil {
		return out
	}
	seen := map[string]struct{}{strings.ToLower(c.Name): {}}
	queue := append(append([]string{}, c.Traits...), directAncestors(c)...)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		next, ok := s.resolve(name)
		if !ok {
			continue
		}
		out = append(out, next)
		queue = append(queue, next.Traits...)
		queue = append(queue, directAncestors(next)...)
	}
	return out
}

// DeclaredAncestors is the lenient form of Ancestors: names that cannot be
// resolved are still listed but not followed.
func (s *Snapshot) DeclaredAncestors(c *Class) []string {
	seen := map[string]struct{}{strings.ToLower(c.Name): {}}
	queue := directAncestors(c)
	var out []string

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)

		if s == nil {
			continue
		}
		if next, ok := s.resolve(name); ok {
			queue = append(queue, directAncestors(next)...)
		}
	}
	return out
}

// MethodsOf lists the methods declared on c or inherited by it. A method
// declared closer to c hides one of the same name further up.
func (s *Snapshot) MethodsOf(c *Class) []*Method {
	var out []*Method
	seen := map[string]struct{}{}
	for _, owner := range s.lineage(c) {
		for _, m := range owner.Methods {
			key := strings.ToLower(m.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// PropertiesOf lists the properties declared on c or inherited by it.
func (s *Snapshot) PropertiesOf(c *Class) []*Property {
	var out []*Property
	seen := map[string]struct{}{}
	for _, owner := range s.lineage(c) {
		for _, p := range owner.Properties {
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// ConstantsOf lists the constants declared on c or inherited by it.
func (s *Snapshot) ConstantsOf(c *Class) []*Constant {
	var out []*Constant
	seen := map[string]struct{}{}
	for _, owner := range s.lineage(c) {
		for _, k := range owner.Constants {
			if _, dup := seen[k.Name]; dup {
				continue
			}
			seen[k.Name] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
