package mht2html

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resourceTags are elements that make a record non-blank even without
// text: a record holding only an image is a picture message, not an empty
// one.
var resourceTags = "img, object, embed"

// fillBlankRecords walks every transcript record matched by selector and
// inserts the placeholder into records that have neither text content nor
// an embedded resource. Returns the number of records filled.
//
// The emptiness rule is deliberately simple (trimmed text empty, no
// resource tag); the selector is the configurable part, because transcript
// formats differ in how they delimit records, not in what "empty" means.
func fillBlankRecords(doc *goquery.Document, selector, placeholder string) int {
	if selector == "" || placeholder == "" {
		return 0
	}

	filled := 0
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if sel.Find(resourceTags).Length() > 0 {
			return
		}
		if strings.TrimSpace(sel.Text()) != "" {
			return
		}
		sel.SetHtml(`<font color="000000">` + html.EscapeString(placeholder) + `</font>`)
		filled++
	})
	return filled
}
