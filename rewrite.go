package mht2html

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// referenceAttrs are the attributes that can point at an archive part.
var referenceAttrs = []string{"src", "href", "background"}

// cssURLPattern matches url(...) values inside CSS text.
var cssURLPattern = regexp.MustCompile(`\burl\(([^()]+)\)`)

// rewriteReferences replaces every reference to an archive part with the
// extracted file's relative path. It covers src/href/background attributes,
// url(...) values in surviving inline style attributes, and url(...) values
// inside <style> elements. A cid: reference with no mapping is left
// unchanged and reported; other unmatched references (external URLs,
// anchors) pass through silently.
func rewriteReferences(doc *goquery.Document, res resourceMap) []Warning {
	w := &referenceWarnings{seen: make(map[string]struct{})}

	for _, attr := range referenceAttrs {
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			ref, _ := sel.Attr(attr)
			if replacement, ok := resolveReference(ref, res, w); ok {
				sel.SetAttr(attr, replacement)
			}
		})
	}

	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if !strings.Contains(style, "url(") {
			return
		}
		sel.SetAttr("style", rewriteCSSURLs(style, res, w))
	})

	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		style := sel.Text()
		if !strings.Contains(style, "url(") {
			return
		}
		sel.SetText(rewriteCSSURLs(style, res, w))
	})

	return w.list
}

// rewriteRuleURLs applies reference rewriting to declarations already
// hoisted into the stylesheet, so references moved out of inline style
// attributes are not lost.
func rewriteRuleURLs(sheet *styleSheet, res resourceMap) []Warning {
	w := &referenceWarnings{seen: make(map[string]struct{})}
	for i := range sheet.rules {
		decl := sheet.rules[i].declarations
		if !strings.Contains(decl, "url(") {
			continue
		}
		sheet.rules[i].declarations = rewriteCSSURLs(decl, res, w)
	}
	return w.list
}

// rewriteCSSURLs rewrites every url(...) value in a CSS fragment.
func rewriteCSSURLs(css string, res resourceMap, w *referenceWarnings) string {
	return cssURLPattern.ReplaceAllStringFunc(css, func(match string) string {
		ref := strings.TrimSpace(match[4 : len(match)-1])
		ref = strings.Trim(ref, `"'`)
		if replacement, ok := resolveReference(ref, res, w); ok {
			return "url(" + replacement + ")"
		}
		return match
	})
}

// resolveReference maps one reference through the resource map. The second
// return is false when the reference must stay as it is; an unresolved
// cid: reference additionally records a warning.
func resolveReference(ref string, res resourceMap, w *referenceWarnings) (string, bool) {
	if ref == "" {
		return "", false
	}
	// Lookup first: Content-Location identifiers are often full http URLs,
	// so no scheme can be excluded up front.
	if replacement, ok := res.resolve(ref); ok {
		return replacement, true
	}
	if strings.HasPrefix(ref, "cid:") {
		w.unresolved(ref)
	}
	return "", false
}

// referenceWarnings deduplicates unresolved-reference warnings: one
// warning per distinct reference, however often it appears.
type referenceWarnings struct {
	list []Warning
	seen map[string]struct{}
}

func (w *referenceWarnings) unresolved(ref string) {
	if _, ok := w.seen[ref]; ok {
		return
	}
	w.seen[ref] = struct{}{}
	w.list = append(w.list, Warning{Kind: WarnUnresolvedReference, Ref: ref, Err: ErrUnresolvedReference})
}
