package diag

import (
	"errors"
	"fmt"
	"sort"
)

// Bag collects the findings of one command, optionally capped at max.
type Bag struct {
	items []Diagnostic
	max   int
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0),
		max:   max,
	}
}

// Add records d unless the limit is reached; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddError records err when it carries a Diagnostic; other errors become
// UnknownCode entries.
func (b *Bag) AddError(err error) bool {
	if err == nil {
		return false
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return b.Add(*d)
	}
	return b.Add(Diagnostic{Severity: SevError, Code: UnknownCode, Message: err.Error()})
}

// HasWarnings reports whether any item is a warning or worse.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the recorded diagnostics; callers must not modify them.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders items by path, start offset, severity (worst first) and code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops items repeating the code, path and span of an earlier one.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Path, d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
