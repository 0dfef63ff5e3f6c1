// Package markup extracts facts from scraped page markup.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cmoonthego/cmo-engine/pkg/models"
)

// FirstHeading returns the trimmed text of the first <h1> in rawHTML.
// It returns models.HeadingNotFound when the markup is blank, cannot be parsed,
// has no <h1>, or the first <h1> has no text.
func FirstHeading(rawHTML string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return models.HeadingNotFound
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.HeadingNotFound
	}

	text := strings.TrimSpace(doc.Find("h1").First().Text())
	if text == "" {
		return models.HeadingNotFound
	}
	return text
}
