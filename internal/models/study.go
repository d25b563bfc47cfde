// internal/models/study.go
package models

type QuizResult struct {
	Title      string         `json:"title"`
	Topic      string         `json:"topic"`
	Difficulty string         `json:"difficulty"`
	Questions  []QuizQuestion `json:"questions"`
}

// QuizQuestion always has at least two options and CorrectIndex indexes Options.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

type FlashcardDeck struct {
	Title string      `json:"title"`
	Topic string      `json:"topic"`
	Cards []Flashcard `json:"cards"`
}

type Flashcard struct {
	Front     string `json:"front"`
	Back      string `json:"back"`
	MemoryTip string `json:"memoryTip"`
}

// EssayGrade keeps OverallScore within [0, OutOf].
type EssayGrade struct {
	OverallScore float64          `json:"overallScore"`
	OutOf        float64          `json:"outOf"`
	Summary      string           `json:"summary"`
	Criteria     []EssayCriterion `json:"criteria"`
	Strengths    []string         `json:"strengths"`
	Improvements []string         `json:"improvements"`
}

type EssayCriterion struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	OutOf    float64 `json:"outOf"`
	Feedback string  `json:"feedback"`
}

type Citation struct {
	Style             string `json:"style"`
	Citation          string `json:"citation"`
	BibliographyEntry string `json:"bibliographyEntry"`
	InTextCitation    string `json:"inTextCitation"`
	Notes             string `json:"notes"`
}
