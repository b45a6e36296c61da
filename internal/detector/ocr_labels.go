package detector

import (
	"context"
	"strings"

	"performative-scorer/internal/logger"

	"github.com/arbovm/levenshtein"
	"github.com/otiai10/gosseract/v2"
)

// TextLabeler extracts semantic labels from text visible in the image
// (book spines, band merch, branded packaging). It is an optional
// capability: the container only wires it when OCR_LABELS_ENABLED is
// set and the service checks for nil before use.
type TextLabeler interface {
	Labels(ctx context.Context, imageBytes []byte) ([]string, error)
}

// OCRLabelProvider runs Tesseract over the image and maps recognized
// tokens onto catalog keywords. Tokens tolerate one edit of OCR noise;
// the heuristic label path keeps its exact substring rule.
type OCRLabelProvider struct {
	keywords []string
}

func NewOCRLabelProvider(catalog []CatalogItem) *OCRLabelProvider {
	seen := make(map[string]bool)
	var keywords []string
	for _, item := range catalog {
		for _, kw := range item.Keywords {
			if !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}
	return &OCRLabelProvider{keywords: keywords}
}

func (p *OCRLabelProvider) Labels(ctx context.Context, imageBytes []byte) ([]string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return nil, err
	}
	text, err := client.Text()
	if err != nil {
		return nil, err
	}
	labels := p.matchTokens(text)
	logger.WithField("labels", len(labels)).Debug("OCR label extraction completed")
	return labels, nil
}

// matchTokens maps OCR tokens to catalog keywords at edit distance <= 1.
func (p *OCRLabelProvider) matchTokens(text string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,:;!?\"'()")
		if len(token) < 3 {
			continue
		}
		for _, kw := range p.keywords {
			if seen[kw] {
				continue
			}
			if token == kw || levenshtein.Distance(token, kw) <= 1 {
				seen[kw] = true
				labels = append(labels, kw)
			}
		}
	}
	return labels
}
