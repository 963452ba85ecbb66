package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_LabelsFollowFileOrder(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantLabels []string
		wantTimes  []string
	}{
		{
			name:       "single slot",
			source:     "Monday 9am\n",
			wantLabels: []string{"A"},
			wantTimes:  []string{"Monday 9am"},
		},
		{
			name:       "two slots",
			source:     "Monday 9am\nTuesday 2pm\n",
			wantLabels: []string{"A", "B"},
			wantTimes:  []string{"Monday 9am", "Tuesday 2pm"},
		},
		{
			name:       "trailing whitespace trimmed",
			source:     "Monday 9am   \nTuesday 2pm\t\n",
			wantLabels: []string{"A", "B"},
			wantTimes:  []string{"Monday 9am", "Tuesday 2pm"},
		},
		{
			name:       "no trailing newline",
			source:     "Monday 9am\nTuesday 2pm",
			wantLabels: []string{"A", "B"},
			wantTimes:  []string{"Monday 9am", "Tuesday 2pm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(strings.NewReader(tt.source))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if c.Len() != len(tt.wantLabels) {
				t.Fatalf("Len() = %d, want %d", c.Len(), len(tt.wantLabels))
			}
			for i, s := range c.Slots() {
				if s.Label != tt.wantLabels[i] {
					t.Errorf("slot %d label = %q, want %q", i, s.Label, tt.wantLabels[i])
				}
				if s.Time != tt.wantTimes[i] {
					t.Errorf("slot %d time = %q, want %q", i, s.Time, tt.wantTimes[i])
				}
				if s.Index != i {
					t.Errorf("slot %d index = %d", i, s.Index)
				}
			}
		})
	}
}

func TestParse_FullAlphabet(t *testing.T) {
	var lines []string
	for i := 0; i < MaxSlots; i++ {
		lines = append(lines, "slot")
	}
	c, err := Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Len() != MaxSlots {
		t.Fatalf("Len() = %d, want %d", c.Len(), MaxSlots)
	}
	labels := c.Labels()
	if labels[0] != "A" || labels[25] != "Z" {
		t.Errorf("labels = %v, want A..Z", labels)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{"empty source", "", ErrEmptyCatalog},
		{"only newline", "\n", ErrEmptySlot},
		{"blank middle line", "Monday 9am\n\nTuesday 2pm\n", ErrEmptySlot},
		{"27 slots", strings.Repeat("slot\n", 27), ErrTooManySlots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.source))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	c, err := Parse(strings.NewReader("Monday 9am\nTuesday 2pm\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	s, ok := c.Lookup("B")
	if !ok {
		t.Fatal("Lookup(B) not found")
	}
	if s.Time != "Tuesday 2pm" {
		t.Errorf("Lookup(B).Time = %q, want %q", s.Time, "Tuesday 2pm")
	}

	if _, ok := c.Lookup("C"); ok {
		t.Error("Lookup(C) found, want miss")
	}
	if _, ok := c.Lookup("b"); ok {
		t.Error("Lookup(b) found, labels are uppercase only")
	}
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "single slot",
			source: "Monday 9am\n",
			want:   "or A) Monday 9am?",
		},
		{
			name:   "two slots",
			source: "Monday 9am\nTuesday 2pm\n",
			want:   "A) Monday 9am, or B) Tuesday 2pm?",
		},
		{
			name:   "three slots",
			source: "Monday 9am\nTuesday 2pm\nFriday 11am\n",
			want:   "A) Monday 9am, B) Tuesday 2pm, or C) Friday 11am?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(strings.NewReader(tt.source))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := c.Prompt(); got != tt.want {
				t.Errorf("Prompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "available_times.txt")
	if err := os.WriteFile(path, []byte("Monday 9am\nTuesday 2pm\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Load(missing) succeeded, want error")
	}
}
