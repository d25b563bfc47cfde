package pipeline

import (
	"fmt"
	"strings"
)

const jsonOnlySystemPrompt = "You are a study assistant. Respond with a single JSON object and nothing else. " +
	"Do not wrap the JSON in markdown."

func quizPrompt(r QuizRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s multiple-choice quiz with %d questions", r.Difficulty, r.QuestionCount)
	if r.Topic != "" {
		fmt.Fprintf(&b, " about %q", r.Topic)
	}
	b.WriteString(".\n")
	if r.SourceText != "" {
		fmt.Fprintf(&b, "Base every question on this material:\n%s\n", r.SourceText)
	}
	b.WriteString(`Return JSON shaped as {"title": string, "topic": string, "difficulty": string, ` +
		`"questions": [{"question": string, "options": [string, ...], "correctIndex": integer, "explanation": string}]}. ` +
		"Give each question 4 options and a zero-based correctIndex.")
	return b.String()
}

func practicePrompt(r PracticeProblemsRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d %s practice problems", r.Count, r.Difficulty)
	if r.Subject != "" {
		fmt.Fprintf(&b, " in %s", r.Subject)
	}
	fmt.Fprintf(&b, " on %q. Each problem is multiple choice with one correct answer and a worked explanation.\n", r.Topic)
	b.WriteString(`Return JSON shaped as {"title": string, "topic": string, "difficulty": string, ` +
		`"questions": [{"question": string, "options": [string, ...], "correctIndex": integer, "explanation": string}]}.`)
	return b.String()
}

func flashcardsPrompt(r FlashcardsRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d study flashcards", r.CardCount)
	if r.Topic != "" {
		fmt.Fprintf(&b, " about %q", r.Topic)
	}
	b.WriteString(".\n")
	if r.SourceText != "" {
		fmt.Fprintf(&b, "Use this material:\n%s\n", r.SourceText)
	}
	b.WriteString(`Return JSON shaped as {"title": string, "topic": string, ` +
		`"cards": [{"front": string, "back": string, "memoryTip": string}]}.`)
	return b.String()
}

func essayPrompt(r EssayRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade the following essay out of %g.\n", r.OutOf)
	if r.Assignment != "" {
		fmt.Fprintf(&b, "Assignment: %s\n", r.Assignment)
	}
	if r.GradeLevel != "" {
		fmt.Fprintf(&b, "Grade level: %s\n", r.GradeLevel)
	}
	if r.Rubric != "" {
		fmt.Fprintf(&b, "Rubric:\n%s\n", r.Rubric)
	}
	fmt.Fprintf(&b, "Essay:\n%s\n", r.Essay)
	b.WriteString(`Return JSON shaped as {"overallScore": number, "outOf": number, "summary": string, ` +
		`"criteria": [{"name": string, "score": number, "outOf": number, "feedback": string}], ` +
		`"strengths": [string], "improvements": [string]}.`)
	return b.String()
}

func citationPrompt(r CitationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Format a %s citation for this source.\n", r.Style)
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	field("Source type", r.SourceType)
	field("Title", r.Title)
	field("Authors", strings.Join(r.Authors, "; "))
	field("Publisher", r.Publisher)
	field("Published", r.PublicationDate)
	field("URL", r.URL)
	field("Accessed", r.AccessDate)
	field("Details", r.Details)
	b.WriteString(`Return JSON shaped as {"style": string, "citation": string, "bibliographyEntry": string, ` +
		`"inTextCitation": string, "notes": string}. Use "notes" for any missing information you had to assume.`)
	return b.String()
}
