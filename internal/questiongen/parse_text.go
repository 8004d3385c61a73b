package questiongen

import (
	"regexp"
	"strings"
)

var (
	// "Q1:", "Q1.", "Question 1:", "### Question 1", "**Q1)**"
	questionHeader = regexp.MustCompile(`^\s*(?:#+\s*)?(?i:q(?:uestion)?)\s*(\d+)\s*[:.)\-]?\s*(.*)$`)

	// "1." or "1)" at the start of a line.
	numberedHeader = regexp.MustCompile(`^\s*(\d+)\s*[.)]\s+(.*)$`)

	// "A. text", "A) text", "A: text", "(A) text", "a. text"
	optionLine = regexp.MustCompile(`^\s*[-*]?\s*\(?([A-Ha-h])\s*[.):]\s*(.+)$`)

	// "Answer: B", "Correct Answer - B) ...", "Correct: B"
	answerLine = regexp.MustCompile(`^\s*(?i:(?:correct\s+)?answer|correct)\s*[:\-]\s*(.*)$`)

	// "Answer B" without a separator, letter only.
	bareAnswerLine = regexp.MustCompile(`^\s*(?i:(?:correct\s+)?answer)\s+\(?([A-Ha-h])\)?\.?\s*$`)

	explanationLine = regexp.MustCompile(`^\s*(?i:explanation|rationale|reason)\s*[:\-]\s*(.*)$`)
)

// scanText splits numbered text into question candidates. Blocks are
// delimited by "Q<n>" / "Question <n>" headers when present, otherwise by
// plain "<n>." numbering. Text before the first header is ignored.
func scanText(raw string) []candidate {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.NewReplacer("**", "", "__", "").Replace(l)
	}

	header := numberedHeader
	for _, l := range lines {
		if questionHeader.MatchString(l) {
			header = questionHeader
			break
		}
	}

	var blocks [][]string
	for _, l := range lines {
		if m := header.FindStringSubmatch(l); m != nil {
			blocks = append(blocks, []string{m[2]})
			continue
		}
		if len(blocks) > 0 {
			last := len(blocks) - 1
			blocks[last] = append(blocks[last], l)
		}
	}

	cands := make([]candidate, 0, len(blocks))
	for _, b := range blocks {
		cands = append(cands, scanBlock(b))
	}
	return cands
}

type blockSection int

const (
	sectionPrompt blockSection = iota
	sectionOptions
	sectionAnswer
	sectionExplanation
)

// scanBlock extracts one candidate. Options must be lettered in sequence
// (A, B, C, ...) so stray lines such as "I think..." are not mistaken for
// options.
func scanBlock(lines []string) candidate {
	var c candidate
	var prompt, explanation []string
	section := sectionPrompt

	for _, l := range lines {
		line := strings.TrimSpace(l)
		if line == "" {
			continue
		}

		if m := answerLine.FindStringSubmatch(line); m != nil {
			c.answer = m[1]
			section = sectionAnswer
			continue
		}
		if m := bareAnswerLine.FindStringSubmatch(line); m != nil {
			c.answer = m[1]
			section = sectionAnswer
			continue
		}
		if m := explanationLine.FindStringSubmatch(line); m != nil {
			if m[1] != "" {
				explanation = append(explanation, m[1])
			}
			section = sectionExplanation
			continue
		}
		if section <= sectionOptions {
			if m := optionLine.FindStringSubmatch(line); m != nil && isNextOption(m[1], len(c.choices)) {
				c.choices = append(c.choices, m[2])
				section = sectionOptions
				continue
			}
		}

		switch section {
		case sectionPrompt:
			prompt = append(prompt, line)
		case sectionOptions:
			// Wrapped option text.
			c.choices[len(c.choices)-1] += " " + line
		case sectionAnswer:
			if c.answer == "" {
				c.answer = line
			}
		case sectionExplanation:
			explanation = append(explanation, line)
		}
	}

	c.prompt = strings.Join(prompt, " ")
	c.explanation = strings.Join(explanation, " ")
	return c
}

func isNextOption(letter string, have int) bool {
	return strings.ToUpper(letter)[0] == byte('A'+have)
}
