package transform

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// StageHTML marks a DecodeError raised while reading HTML input.
const StageHTML = "html"

// jsonBlocks lists where JSON usually sits in a copied web page, most
// specific first.
const jsonBlocks = `script[type="application/json"], script[type="application/ld+json"], pre, code`

// ExtractHTML returns the JSON text embedded in an HTML fragment: the first
// JSON script, <pre> or <code> block that holds valid JSON, or else the
// visible text of the document.
func ExtractHTML(input string) (string, error) {
	root, err := html.Parse(strings.NewReader(Clean(input)))
	if err != nil {
		return "", &DecodeError{Stage: StageHTML, Err: err}
	}
	doc := goquery.NewDocumentFromNode(root)

	var found string
	doc.Find(jsonBlocks).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" && json.Valid([]byte(text)) {
			found = text
			return false
		}
		return true
	})
	if found != "" {
		return found, nil
	}

	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text()), nil
}
