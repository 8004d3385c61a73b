package questiongen

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/quiz"
)

const fiveQuestions = `Here are 5 questions about Amazon S3:

Q1: Which AWS service provides object storage?
A. Amazon EC2
B. Amazon S3
C. AWS Lambda
D. Amazon RDS
Answer: B
Explanation: S3 is the object storage service.

Q2: What is the maximum size of a single S3 object?
A. 5 GB
B. 5 TB
C. 50 TB
D. Unlimited
Answer: B) 5 TB
Explanation: Objects can be up to 5 TB.

**Q3:** Which storage class is cheapest for archives?
A. S3 Standard
B. S3 Standard-IA
C. S3 Glacier Deep Archive
D. S3 One Zone-IA
Correct Answer - C
Explanation: Deep Archive has the lowest storage price.

Question 4: Which feature keeps prior object versions?
A. Versioning
B. Replication
C. Transfer Acceleration
D. Object Lock
Answer: A

Q5: S3 bucket names are:
A. Unique per account
B. Unique per region
C. Globally unique
D. Unique per VPC
Answer: C
Explanation: Bucket names share a global namespace.
`

func TestParse_TextFiveQuestions(t *testing.T) {
	qs, err := Parse(fiveQuestions, 5)
	require.NoError(t, err)
	require.Len(t, qs, 5)

	assert.Equal(t, "Which AWS service provides object storage?", qs[0].Prompt)
	assert.Equal(t, []string{"Amazon EC2", "Amazon S3", "AWS Lambda", "Amazon RDS"}, qs[0].Choices)
	assert.Equal(t, 1, qs[0].CorrectIndex)
	assert.Equal(t, "Amazon S3", qs[0].Answer)
	assert.Equal(t, "S3 is the object storage service.", qs[0].Explanation)

	assert.Equal(t, 1, qs[1].CorrectIndex)
	assert.Equal(t, "Which storage class is cheapest for archives?", qs[2].Prompt)
	assert.Equal(t, 2, qs[2].CorrectIndex)
	assert.Equal(t, 0, qs[3].CorrectIndex)
	assert.Empty(t, qs[3].Explanation)
	assert.Equal(t, "Globally unique", qs[4].Answer)

	for i, q := range qs {
		assert.NoError(t, q.Validate(), "question %d", i+1)
	}
}

func TestParse_ExtraQuestionsDiscarded(t *testing.T) {
	qs, err := Parse(fiveQuestions, 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, "Which storage class is cheapest for archives?", qs[2].Prompt)
}

func TestParse_TooFewValidQuestions(t *testing.T) {
	raw := `Q1: First?
A. one
B. two
Answer: A

Q2: Second?
A. one
B. two
Answer: B

Q3: Third?
A. one
B. two
Answer: A

Q4: No answer given here?
A. one
B. two

Q5: Answer points past the options?
A. one
B. two
Answer: E
`
	qs, err := Parse(raw, 5)
	require.Error(t, err)
	assert.Nil(t, qs)

	var perr *quiz.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Found)
	assert.Equal(t, 5, perr.Expected)
	assert.Contains(t, perr.Reason, "question 4")

	qs, err = Parse(raw, 3)
	require.NoError(t, err)
	assert.Len(t, qs, 3)
}

func TestParse_EmptyAndInvalidCount(t *testing.T) {
	var perr *quiz.ParseError

	_, err := Parse("   \n", 5)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "empty response", perr.Reason)

	_, err = Parse(fiveQuestions, 0)
	require.True(t, errors.As(err, &perr))

	_, err = Parse("I could not find anything about that topic.", 1)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, perr.Found)
}

func TestParse_NumberedWithoutHeaders(t *testing.T) {
	raw := `1. What does EC2 provide?
a) Virtual servers
b) DNS
c) Queues
Answer: a

2) What does SQS provide?
a) Virtual servers
b) DNS
c) Queues
Answer: Queues
`
	qs, err := Parse(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, qs[0].CorrectIndex)
	assert.Equal(t, 2, qs[1].CorrectIndex)
	assert.Equal(t, "What does SQS provide?", qs[1].Prompt)
}

func TestParse_WrappedOptionAndPrompt(t *testing.T) {
	raw := `Q1: A company needs durable storage
for millions of small files. Which service fits?
A. Amazon S3 with lifecycle rules
   moving objects to Glacier
B. Instance store
Answer: A
`
	qs, err := Parse(raw, 1)
	require.NoError(t, err)
	assert.Equal(t, "A company needs durable storage for millions of small files. Which service fits?", qs[0].Prompt)
	assert.Equal(t, "Amazon S3 with lifecycle rules moving objects to Glacier", qs[0].Choices[0])
}

func TestParse_FreeResponse(t *testing.T) {
	raw := `Q1: What does IAM stand for?
Answer: Identity and Access Management
Explanation: IAM controls access to AWS resources.
`
	qs, err := Parse(raw, 1)
	require.NoError(t, err)
	q := qs[0]
	assert.False(t, q.IsMultipleChoice())
	assert.Equal(t, -1, q.CorrectIndex)
	assert.Equal(t, "Identity and Access Management", q.Answer)
	assert.True(t, quiz.CheckAnswer("identity and access management", &q))
}

func TestParse_DuplicateChoicesDropped(t *testing.T) {
	raw := `Q1: Pick one
A. same
B. Same
Answer: A
`
	_, err := Parse(raw, 1)
	var perr *quiz.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Reason, "duplicate choice")
}

func TestParse_JSONWrapperFenced(t *testing.T) {
	raw := "Sure, here you go:\n```json\n" + `{"questions": [
  {"question": "Which service is serverless compute?", "choices": ["EC2", "Lambda", "EBS", "VPC"], "answer": "B", "explanation": "Lambda runs code without servers."},
  {"question": "Which service is a managed relational DB?", "choices": ["RDS", "S3", "SNS", "SQS"], "answer": "A", "explanation": ""}
]}` + "\n```\n"

	qs, err := Parse(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, "Lambda", qs[0].Answer)
	assert.Equal(t, 1, qs[0].CorrectIndex)
	assert.Equal(t, "Lambda runs code without servers.", qs[0].Explanation)
	assert.Equal(t, 0, qs[1].CorrectIndex)
}

func TestParse_JSONArrayAliases(t *testing.T) {
	raw := `[
  {"prompt": "Pick the queue service", "options": {"B": "SQS", "A": "SNS", "C": "SES"}, "answer": 2},
  {"question": "What port does HTTPS use?", "answer": "443"},
  {"question": "Broken", "choices": ["x", "y"], "answer": "Z"}
]`
	qs, err := Parse(raw, 2)
	require.NoError(t, err)

	assert.Equal(t, "Pick the queue service", qs[0].Prompt)
	assert.Equal(t, []string{"SNS", "SQS", "SES"}, qs[0].Choices)
	assert.Equal(t, 1, qs[0].CorrectIndex)
	assert.Equal(t, "SQS", qs[0].Answer)

	assert.False(t, qs[1].IsMultipleChoice())
	assert.Equal(t, "443", qs[1].Answer)

	_, err = Parse(raw, 3)
	var perr *quiz.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Found)
}

func TestParse_InvalidJSONFallsBackToText(t *testing.T) {
	raw := "Q1: Is {this} json?\nA. no\nB. yes\nAnswer: A\n"
	qs, err := Parse(raw, 1)
	require.NoError(t, err)
	assert.Equal(t, "Is {this} json?", qs[0].Prompt)
}

func TestParse_BracketedTokensInText(t *testing.T) {
	tests := map[string]string{
		"policy action": ` granting ["s3:GetObject"]`,
		"citation":      ` as noted in [1]`,
		"empty list":    ` with Principal []`,
	}
	for name, suffix := range tests {
		t.Run(name, func(t *testing.T) {
			raw := strings.Replace(fiveQuestions, "provides object storage?", "provides object storage"+suffix+"?", 1)
			qs, err := Parse(raw, 5)
			require.NoError(t, err)
			require.Len(t, qs, 5)
			assert.Equal(t, "Which AWS service provides object storage"+suffix+"?", qs[0].Prompt)
			assert.Equal(t, 1, qs[0].CorrectIndex)
		})
	}
}

func TestParse_JSONNumericOptionText(t *testing.T) {
	raw := `{"questions":[{"question":"How many AZs must a region have at minimum?","choices":["5","10","15","20"],"answer":"10"},
{"question":"Pick the second option","choices":["5","10","15","20"],"answer":2}]}`
	qs, err := Parse(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, qs[0].CorrectIndex)
	assert.Equal(t, "10", qs[0].Answer)
	assert.Equal(t, 1, qs[1].CorrectIndex, "in-range numbers are positions")
}

func TestParse_JSONItemsWithoutQuestionsFallBack(t *testing.T) {
	_, ok := decodeJSON(`[1, 2, 3]`)
	assert.False(t, ok)
	_, ok = decodeJSON(`["s3:GetObject", "s3:PutObject"]`)
	assert.False(t, ok)
	_, ok = decodeJSON(`{"Effect": "Allow", "Action": ["s3:GetObject"]}`)
	assert.False(t, ok)

	// A real list keeps a slot for an item that does not decode.
	cands, ok := decodeJSON(`[{"question": "Q?", "answer": "x"}, 42]`)
	require.True(t, ok)
	assert.Len(t, cands, 2)
	assert.Empty(t, cands[1].prompt)
}

func TestParser_CustomValidators(t *testing.T) {
	p := NewParser(&ChoicesValidator{MinChoices: 4})
	raw := "Q1: Two options only\nA. x\nB. y\nAnswer: A\n"
	_, err := p.Parse(raw, 1)
	var perr *quiz.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Reason, "at least 4 choices")

	qs, err := NewParser().Parse(raw, 1)
	require.NoError(t, err)
	assert.Len(t, qs, 1)
}

func TestResolveAnswer(t *testing.T) {
	choices := []string{"Amazon EC2", "Amazon S3", "AWS Lambda"}
	tests := []struct {
		answer string
		want   int
		ok     bool
	}{
		{"B", 1, true},
		{"b)", 1, true},
		{"(C)", 2, true},
		{"Option A", 0, true},
		{"Choice c", 2, true},
		{"B. Amazon S3", 1, true},
		{"2", 1, true},
		{"aws lambda", 2, true},
		{"Amazon S3.", 1, true},
		{"D", -1, false},
		{"none of these", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got, ok := resolveAnswer(tt.answer, choices)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	numeric := []string{"5", "10", "15", "20"}
	for answer, want := range map[string]int{"10": 1, "20": 3, "B": 1, "3": 2} {
		t.Run("numeric "+answer, func(t *testing.T) {
			got, ok := resolveAnswer(answer, numeric)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "bold and code", cleanText("  **bold**   and\n`code` "))
}

func TestParse_LongPromptRejected(t *testing.T) {
	raw := fmt.Sprintf("Q1: %s?\nA. x\nB. y\nAnswer: A\n", strings.Repeat("word ", 250))
	_, err := Parse(raw, 1)
	var perr *quiz.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Reason, "1000 characters")
}
