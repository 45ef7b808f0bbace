package episode

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Metadata maps field names to string values. Fields come from the fixed
// set {title, description, url, image, date}; an absent field means the
// page did not carry it, never "present but empty".
type Metadata map[string]string

// ogFields are the Open Graph properties mirrored into the metadata record.
var ogFields = []string{"title", "description", "url", "image"}

// dateSelector matches the container carrying the publication date.
const dateSelector = ".ep-date"

// ExtractMetadata maps a parsed episode page to a metadata record. It never
// fails: every field lookup degrades to omission with a log line.
func ExtractMetadata(doc *goquery.Document, logger *zap.Logger) Metadata {
	md := Metadata{}

	for _, field := range ogFields {
		sel := doc.Find(`meta[property="og:` + field + `"]`).First()
		if sel.Length() == 0 {
			logger.Debug("missing metadata field", zap.String("field", field))
			continue
		}
		content, ok := sel.Attr("content")
		if !ok {
			logger.Warn("metadata field missing content", zap.String("field", field))
			continue
		}
		md[field] = strings.TrimSpace(content)
	}

	dateElem := doc.Find(dateSelector).First()
	if dateElem.Length() == 0 {
		logger.Warn("failed to find date element")
		return md
	}
	if child := dateElem.Find("i").First(); child.Length() > 0 {
		md["date"] = strings.TrimSpace(child.Text())
	} else if text := strings.TrimSpace(dateElem.Text()); text != "" {
		logger.Warn("falling back to date element text")
		md["date"] = text
	} else {
		logger.Warn("failed to find date metadata in date element")
	}

	return md
}
