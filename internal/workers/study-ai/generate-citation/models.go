// internal/workers/study-ai/generate-citation/models.go
package generatecitation

import "studyai-workers/internal/models"

type Input struct {
	Style           string   `json:"style"`
	SourceType      string   `json:"sourceType"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Publisher       string   `json:"publisher"`
	PublicationDate string   `json:"publicationDate"`
	URL             string   `json:"url"`
	AccessDate      string   `json:"accessDate"`
	Details         string   `json:"details"`
}

type Output struct {
	Citation models.Citation `json:"citation"`
}
