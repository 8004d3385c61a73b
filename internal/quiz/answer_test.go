package quiz

import "testing"

func mcQuestion() *Question {
	return &Question{
		Prompt:       "Which service stores objects?",
		Choices:      []string{"EC2", "S3", "Lambda", "IAM"},
		CorrectIndex: 1,
		Answer:       "S3",
	}
}

func TestCheckAnswer_MultipleChoice(t *testing.T) {
	q := mcQuestion()

	tests := []struct {
		input string
		want  bool
	}{
		{"B", true},
		{"b", true},
		{" b ", true},
		{"B)", true},
		{"2", true},
		{"s3", true},
		{"S3", true},
		{"A", false},
		{"1", false},
		{"5", false},
		{"E", false},
		{"", false},
		{"EC2", false},
	}

	for _, tc := range tests {
		got := CheckAnswer(tc.input, q)
		if got != tc.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCheckAnswer_FreeResponse(t *testing.T) {
	q := &Question{
		Prompt:       "What does IAM stand for?",
		CorrectIndex: -1,
		Answer:       "Identity and Access Management",
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"Identity and Access Management", true},
		{"identity and access management", true},
		{"  Identity  and Access   Management ", true},
		{"Identity Access Management", false},
		{"", false},
	}

	for _, tc := range tests {
		got := CheckAnswer(tc.input, q)
		if got != tc.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestResolveChoice(t *testing.T) {
	choices := []string{"one", "two", "three"}

	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"a", 0, true},
		{"C", 2, true},
		{"D", -1, false},
		{"3", 2, true},
		{"0", -1, false},
		{"Two", 1, true},
		{"four", -1, false},
	}

	for _, tc := range tests {
		got, ok := ResolveChoice(tc.input, choices)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ResolveChoice(%q) = (%d, %v), want (%d, %v)", tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestResolveChoice_NumericOptions(t *testing.T) {
	choices := []string{"5", "10", "15", "20"}

	tests := []struct {
		input string
		want  int
	}{
		{"10", 1},
		{"20", 3},
		{"15", 2},
		{"2", 1},
		{"b", 1},
	}

	for _, tc := range tests {
		got, ok := ResolveChoice(tc.input, choices)
		if !ok || got != tc.want {
			t.Errorf("ResolveChoice(%q) = (%d, %v), want (%d, true)", tc.input, got, ok, tc.want)
		}
	}

	q := &Question{Prompt: "How many?", Choices: choices, CorrectIndex: 1, Answer: "10"}
	if !CheckAnswer("10", q) {
		t.Error("typing the option text \"10\" should be correct")
	}
	if CheckAnswer("25", q) {
		t.Error("\"25\" is neither a position nor an option")
	}
}
