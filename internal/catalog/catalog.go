// Package catalog holds the fixed list of bookable appointment slots.
//
// Slots are loaded once at startup from a plain-text file (one time
// description per line) and addressed by a single uppercase letter derived
// from file position: line 0 becomes "A", line 1 becomes "B", and so on.
// The catalog is immutable after load.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxSlots is the hard cap on catalog size. One letter per slot; a file with
// more lines than letters is rejected rather than silently truncated.
const MaxSlots = 26

// Errors for catalog loading.
var (
	ErrEmptyCatalog = errors.New("catalog source contains no slots")
	ErrTooManySlots = errors.New("catalog source exceeds 26 slots")
	ErrEmptySlot    = errors.New("catalog source contains an empty line")
)

// Slot is one bookable appointment time.
type Slot struct {
	// Index is the 0-based file position.
	Index int
	// Label is the single uppercase letter assigned by position.
	Label string
	// Time is the human-readable time description from the source file.
	Time string
}

// Catalog is an ordered, immutable collection of slots.
type Catalog struct {
	slots   []Slot
	byLabel map[string]Slot
}

// Load reads a catalog from a slot-source file.
//
// Example:
//
//	cat, err := catalog.Load("available_times.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open slot source: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse slot source %s: %w", path, err)
	}
	return c, nil
}

// Parse reads slot descriptions from r, one per line, trailing whitespace
// trimmed per line. Returns ErrEmptyCatalog for an empty source,
// ErrTooManySlots for more than MaxSlots lines, and ErrEmptySlot when a
// line trims to nothing.
func Parse(r io.Reader) (*Catalog, error) {
	scanner := bufio.NewScanner(r)

	var slots []Slot
	byLabel := make(map[string]Slot)

	line := 0
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), " \t\r\n")
		if text == "" {
			return nil, fmt.Errorf("%w: line %d", ErrEmptySlot, line+1)
		}
		if line >= MaxSlots {
			return nil, ErrTooManySlots
		}

		slot := Slot{
			Index: line,
			Label: string(rune('A' + line)),
			Time:  text,
		}
		slots = append(slots, slot)
		byLabel[slot.Label] = slot
		line++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read slot source: %w", err)
	}

	if len(slots) == 0 {
		return nil, ErrEmptyCatalog
	}

	return &Catalog{slots: slots, byLabel: byLabel}, nil
}

// Lookup resolves a letter label to its slot.
func (c *Catalog) Lookup(label string) (Slot, bool) {
	s, ok := c.byLabel[label]
	return s, ok
}

// Labels returns the assigned labels in slot order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.slots))
	for i, s := range c.slots {
		labels[i] = s.Label
	}
	return labels
}

// Slots returns a copy of the slots in file order.
func (c *Catalog) Slots() []Slot {
	out := make([]Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

// Len returns the number of slots.
func (c *Catalog) Len() int {
	return len(c.slots)
}

// Prompt renders the slot enumeration asked of the caller, e.g.
// "A) Monday 9am, B) Tuesday 2pm, or C) Friday 11am?". A single-slot
// catalog renders as "or A) Monday 9am?".
func (c *Catalog) Prompt() string {
	var b strings.Builder
	for _, s := range c.slots[:len(c.slots)-1] {
		b.WriteString(s.Label)
		b.WriteString(") ")
		b.WriteString(s.Time)
		b.WriteString(", ")
	}
	last := c.slots[len(c.slots)-1]
	b.WriteString("or ")
	b.WriteString(last.Label)
	b.WriteString(") ")
	b.WriteString(last.Time)
	b.WriteString("?")
	return b.String()
}
