package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"Medium", DifficultyMedium, false},
		{" HARD ", DifficultyHard, false},
		{"expert", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDifficulty(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"valid mc", Question{Prompt: "p", Choices: []string{"a", "b"}, CorrectIndex: 1, Answer: "b"}, false},
		{"empty prompt", Question{Prompt: "  ", Choices: []string{"a"}, CorrectIndex: 0}, true},
		{"index out of range", Question{Prompt: "p", Choices: []string{"a", "b"}, CorrectIndex: 2}, true},
		{"negative index", Question{Prompt: "p", Choices: []string{"a", "b"}, CorrectIndex: -1}, true},
		{"valid free", Question{Prompt: "p", CorrectIndex: -1, Answer: "x"}, false},
		{"free without answer", Question{Prompt: "p", CorrectIndex: -1}, true},
		{"free with index", Question{Prompt: "p", CorrectIndex: 0, Answer: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionRatio(t *testing.T) {
	s := Session{Score: 3, Total: 5}
	assert.InDelta(t, 0.6, s.Ratio(), 1e-9)
	assert.InDelta(t, 60.0, s.Percent(), 1e-9)

	empty := Session{}
	assert.Zero(t, empty.Ratio())
}

func TestCorrectLabel(t *testing.T) {
	q := mcQuestion()
	assert.Equal(t, "B", q.CorrectLabel())

	free := &Question{Prompt: "p", CorrectIndex: -1, Answer: "forty two"}
	assert.Equal(t, "forty two", free.CorrectLabel())
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")

	var genErr error = &GenerationError{Cause: cause}
	assert.ErrorIs(t, genErr, cause)

	var storeErr error = &StoreError{Op: "save", Cause: cause}
	assert.ErrorIs(t, storeErr, cause)
	assert.Contains(t, storeErr.Error(), "save")

	pe := &ParseError{Reason: "too few questions", Found: 3, Expected: 5}
	assert.Contains(t, pe.Error(), "found 3 of 5")
}
