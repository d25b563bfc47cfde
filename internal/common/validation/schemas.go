package validation

import "studyai-workers/internal/models"

const quizSchema = `{
  "type": "object",
  "required": ["title", "topic", "difficulty", "questions"],
  "properties": {
    "title": {"type": "string"},
    "topic": {"type": "string"},
    "difficulty": {"type": "string"},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "options", "correctIndex", "explanation"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "options": {"type": "array", "minItems": 2, "items": {"type": "string", "minLength": 1}},
          "correctIndex": {"type": "integer", "minimum": 0},
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`

const flashcardsSchema = `{
  "type": "object",
  "required": ["title", "topic", "cards"],
  "properties": {
    "title": {"type": "string"},
    "topic": {"type": "string"},
    "cards": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["front", "back", "memoryTip"],
        "properties": {
          "front": {"type": "string", "minLength": 1},
          "back": {"type": "string", "minLength": 1},
          "memoryTip": {"type": "string"}
        }
      }
    }
  }
}`

const essayGradeSchema = `{
  "type": "object",
  "required": ["overallScore", "outOf", "summary", "criteria", "strengths", "improvements"],
  "properties": {
    "overallScore": {"type": "number", "minimum": 0},
    "outOf": {"type": "number", "exclusiveMinimum": 0},
    "summary": {"type": "string"},
    "criteria": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "score", "outOf", "feedback"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "score": {"type": "number", "minimum": 0},
          "outOf": {"type": "number", "exclusiveMinimum": 0},
          "feedback": {"type": "string"}
        }
      }
    },
    "strengths": {"type": "array", "items": {"type": "string"}},
    "improvements": {"type": "array", "items": {"type": "string"}}
  }
}`

const citationSchema = `{
  "type": "object",
  "required": ["style", "citation", "bibliographyEntry"],
  "properties": {
    "style": {"type": "string"},
    "citation": {"type": "string"},
    "bibliographyEntry": {"type": "string"},
    "inTextCitation": {"type": "string"},
    "notes": {"type": "string"}
  }
}`

var resultSchemas = map[models.ResultKind]string{
	models.ResultKindQuiz:       quizSchema,
	models.ResultKindFlashcards: flashcardsSchema,
	models.ResultKindEssayGrade: essayGradeSchema,
	models.ResultKindCitation:   citationSchema,
}
