package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/kb"
)

// Retrieval queries sent alongside the generation prompt.
const (
	generalQuery = "Give me diverse information from different topics for a general knowledge quiz"
	topicQuery   = "Tell me about %s for a certification exam"
)

// retrievalQuery returns the knowledge-base query for req.
func retrievalQuery(req Request) string {
	if req.General || req.Topic == "" {
		return generalQuery
	}
	return fmt.Sprintf(topicQuery, req.Topic)
}

const questionFormat = `Format each question like this:

Q1: [Question text]
A. [Specific option text for A - not just "A"]
B. [Specific option text for B - not just "B"]
C. [Specific option text for C - not just "C"]
D. [Specific option text for D - not just "D"]
Answer: [Correct letter]
Explanation: [Brief explanation]`

// buildKBPrompt is the instruction sent with a retrieve-and-generate call.
// The response is expected in the lettered text format above.
func buildKBPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are an expert quiz creator for certification exam preparation.\n\n")

	if req.General || req.Topic == "" {
		fmt.Fprintf(&b, "Based on the retrieved information from various topics, create %d multiple-choice questions at %s difficulty level.\n\n",
			req.Count, req.Difficulty)
		b.WriteString("Important: Include questions from different topics and subject areas to create a diverse general knowledge quiz.\n\n")
	} else {
		fmt.Fprintf(&b, "Based on the retrieved information about %q, create %d multiple-choice questions at %s difficulty level.\n\n",
			req.Topic, req.Count, req.Difficulty)
	}

	fmt.Fprintf(&b, "For each question:\n1. Make sure it's at %s difficulty level\n", req.Difficulty)
	b.WriteString("2. Include 4 possible answers (A, B, C, D)\n")
	b.WriteString("3. Mark the correct answer\n")
	b.WriteString("4. Provide a brief explanation for why the answer is correct\n\n")
	b.WriteString(questionFormat)
	b.WriteString("\n\n")

	if req.General || req.Topic == "" {
		b.WriteString("Make sure the questions are challenging but fair, and cover a variety of topics from the study materials.")
	} else {
		fmt.Fprintf(&b, "Make sure the questions are challenging but fair, and directly related to %q.", req.Topic)
	}
	return b.String()
}

const llmSystemPrompt = `You are an expert quiz creator for certification exam preparation.

Rules:
- Write multiple-choice questions answerable from the study material provided. If no material is provided, use well-established facts about the topic.
- Each question has exactly 4 options. Exactly one option is correct.
- Options must be specific statements, never just a letter or "all of the above".
- "answer" is the letter (A, B, C or D) of the correct option.
- The explanation says briefly why the correct option is right.
- Match the requested difficulty: easy questions test definitions, medium questions test application, hard questions test trade-offs and edge cases.
- Do not repeat a question.`

// buildLLMUserMessage builds the user message for the LLM generator,
// embedding retrieved passages truncated to maxChars each.
func buildLLMUserMessage(req Request, passages []kb.Passage, maxChars int) string {
	var b strings.Builder

	if req.General || req.Topic == "" {
		b.WriteString("Topic: a mix of topics from the study material\n")
	} else {
		fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)

	b.WriteString("\nStudy material:\n")
	if len(passages) == 0 {
		b.WriteString("None")
		return b.String()
	}
	for i, p := range passages {
		text := strings.TrimSpace(p.Text)
		if maxChars > 0 && len(text) > maxChars {
			text = text[:maxChars] + "..."
		}
		fmt.Fprintf(&b, "\n[%d]", i+1)
		if p.Source != "" {
			fmt.Fprintf(&b, " (%s)", p.Source)
		}
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
