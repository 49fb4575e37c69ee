package mht2html

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// classGenerator produces deterministic class names for one conversion
// run. It is an explicit object rather than package state so concurrent
// conversions cannot leak counters into each other.
type classGenerator struct {
	prefix string
	n      int
}

// next returns the next generated class name (prefix plus a counter
// starting at 1).
func (g *classGenerator) next() string {
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

// styleRule is one hoisted inline style declaration block.
type styleRule struct {
	declarations string // normalized declaration text
	className    string
}

// styleSheet collects deduplicated style rules in creation order.
type styleSheet struct {
	gen   classGenerator
	index map[string]string // normalized declarations -> class name
	rules []styleRule
}

func newStyleSheet() *styleSheet {
	return &styleSheet{
		gen:   classGenerator{prefix: classPrefix},
		index: make(map[string]string),
	}
}

// classFor returns the class name for a normalized declaration block,
// creating a new rule on first sight. Identical declarations always map
// to the same class; distinct declarations never share one.
func (s *styleSheet) classFor(declarations string) string {
	if class, ok := s.index[declarations]; ok {
		return class
	}
	class := s.gen.next()
	s.index[declarations] = class
	s.rules = append(s.rules, styleRule{declarations: declarations, className: class})
	return class
}

// len returns the number of distinct rules collected so far.
func (s *styleSheet) len() int {
	return len(s.rules)
}

// css serializes all rules in creation order.
func (s *styleSheet) css() string {
	var b strings.Builder
	for i, r := range s.rules {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, ".%s { %s }", r.className, r.declarations)
	}
	return b.String()
}

// normalizeDeclarations trims and whitespace-collapses a declaration
// block. Declaration order is preserved; two blocks are equal only when
// their collapsed text matches exactly.
func normalizeDeclarations(declarations string) string {
	return strings.Join(strings.Fields(declarations), " ")
}

// normalizeStyles walks every element carrying an inline style attribute,
// replaces the attribute with a generated class reference, and records the
// declaration block in the stylesheet. Empty style attributes are left
// untouched.
func normalizeStyles(doc *goquery.Document, sheet *styleSheet) {
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		raw, _ := sel.Attr("style")
		declarations := normalizeDeclarations(raw)
		if declarations == "" {
			return
		}
		sel.AddClass(sheet.classFor(declarations))
		sel.RemoveAttr("style")
	})
}

// insertStylesheet appends the consolidated <style> block to the document
// head. The HTML parser guarantees a head element exists, but fall back to
// prepending to the body just in case a fragment slipped through.
func insertStylesheet(doc *goquery.Document, css string) {
	if css == "" {
		return
	}
	block := "<style type=\"text/css\">\n" + sanitizeCSS(css) + "\n</style>"

	if head := doc.Find("head"); head.Length() > 0 {
		head.First().AppendHtml(block)
		return
	}
	if body := doc.Find("body"); body.Length() > 0 {
		body.First().PrependHtml(block)
		return
	}
	doc.Selection.PrependHtml(block)
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
