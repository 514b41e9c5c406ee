package changespec

import "encoding/json"

// Changes is an ordered, append-only collection of Change values.
// Values are never modified in place; every operation returns a new Changes.
type Changes struct {
	list []Change
}

// Empty returns the identity element for Merge.
func Empty() Changes {
	return Changes{}
}

// FromList builds a Changes value preserving argument order.
func FromList(changes ...Change) Changes {
	if len(changes) == 0 {
		return Changes{}
	}
	list := make([]Change, len(changes))
	copy(list, changes)
	return Changes{list: list}
}

// Merge returns the concatenation of c followed by other.
func (c Changes) Merge(other Changes) Changes {
	if len(other.list) == 0 {
		return c
	}
	if len(c.list) == 0 {
		return other
	}
	list := make([]Change, 0, len(c.list)+len(other.list))
	list = append(list, c.list...)
	list = append(list, other.list...)
	return Changes{list: list}
}

// List returns a copy of the changes in emission order.
func (c Changes) List() []Change {
	list := make([]Change, len(c.list))
	copy(list, c.list)
	return list
}

func (c Changes) Len() int { return len(c.list) }

// HasBreaks reports whether at least one change is a BC break.
func (c Changes) HasBreaks() bool {
	for _, ch := range c.list {
		if ch.isBreak {
			return true
		}
	}
	return false
}

// CountBreaks returns the number of BC breaks.
func (c Changes) CountBreaks() int {
	n := 0
	for _, ch := range c.list {
		if ch.isBreak {
			n++
		}
	}
	return n
}

// Filter keeps the changes for which keep returns true.
func (c Changes) Filter(keep func(Change) bool) Changes {
	var list []Change
	for _, ch := range c.list {
		if keep(ch) {
			list = append(list, ch)
		}
	}
	return Changes{list: list}
}

// Deduplicate drops repeated changes, keeping the first occurrence.
// Skipped records are all kept: each one stands for a check that did not run.
func (c Changes) Deduplicate() Changes {
	seen := make(map[Change]struct{}, len(c.list))
	list := make([]Change, 0, len(c.list))
	for _, ch := range c.list {
		if ch.kind == ChangeKindSkipped {
			list = append(list, ch)
			continue
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		list = append(list, ch)
	}
	return Changes{list: list}
}

func (c Changes) MarshalJSON() ([]byte, error) {
	if c.list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.list)
}

func (c *Changes) UnmarshalJSON(data []byte) error {
	var list []Change
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = Changes{list: list}
	return nil
}
