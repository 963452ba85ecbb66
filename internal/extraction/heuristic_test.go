package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicExtractor_ExtractTimeChoice(t *testing.T) {
	labels := []string{"A", "B", "C"}

	tests := []struct {
		name       string
		transcript string
		want       string
		wantErr    bool
	}{
		{
			name:       "explicit option",
			transcript: "BOT: Which would you prefer? HUMAN: I'll take option B please.",
			want:       "B",
		},
		{
			name:       "letter phrasing",
			transcript: "HUMAN: letter c sounds good",
			want:       "C",
		},
		{
			name:       "go with",
			transcript: "HUMAN: let's go with A, thanks",
			want:       "A",
		},
		{
			name:       "bare letter",
			transcript: "HUMAN: B works for me",
			want:       "B",
		},
		{
			name:       "correction wins",
			transcript: "HUMAN: option A. Actually, make that option C.",
			want:       "C",
		},
		{
			name:       "letter outside catalog ignored",
			transcript: "HUMAN: option Z please",
			wantErr:    true,
		},
		{
			name:       "no choice stated",
			transcript: "HUMAN: none of those work, goodbye",
			wantErr:    true,
		},
		{
			name:       "empty transcript",
			transcript: "",
			wantErr:    true,
		},
	}

	ex := NewHeuristicExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice, err := ex.ExtractTimeChoice(context.Background(), tt.transcript, labels)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrExtractionFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, choice.Letter)
		})
	}
}
