package pipeline

import (
	"context"
	"strings"

	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/normalize"
	"studyai-workers/internal/models"
)

type CitationRequest struct {
	Style           string
	SourceType      string
	Title           string
	Authors         []string
	Publisher       string
	PublicationDate string
	URL             string
	AccessDate      string
	Details         string
}

func (p *Pipeline) GenerateCitation(ctx context.Context, r CitationRequest) (models.Citation, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	r.Details = strings.TrimSpace(r.Details)
	if r.Title == "" && r.URL == "" && r.Details == "" {
		return models.Citation{}, apperrors.NewInvalidRequestError("a title, URL or source details are required")
	}
	r.Style = orDefault(r.Style, normalize.DefaultCitationStyle)

	cc := normalize.CitationContext{Style: r.Style}
	return run(ctx, p, call{
		feature: config.FeatureCitation,
		kind:    models.ResultKindCitation,
		prompt:  citationPrompt(r),
		system:  jsonOnlySystemPrompt,
	}, func(obj map[string]interface{}) (models.Citation, error) {
		return normalize.Citation(obj, cc)
	})
}
