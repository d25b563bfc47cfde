package normalize

import (
	"studyai-workers/internal/models"
)

const DefaultCitationStyle = "APA"

type CitationContext struct {
	Style string
}

// Citation never fails. BibliographyEntry falls back to Citation; missing text is "".
func Citation(obj interface{}, cc CitationContext) (models.Citation, error) {
	root := asObject(obj)

	citation := text(root["citation"])
	return models.Citation{
		Style:             textOr(root["style"], textOr(cc.Style, DefaultCitationStyle)),
		Citation:          citation,
		BibliographyEntry: textOr(root["bibliographyEntry"], citation),
		InTextCitation:    text(root["inTextCitation"]),
		Notes:             text(root["notes"]),
	}, nil
}
