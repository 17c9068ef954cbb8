// Package sanitise converts markup-bearing content into plain text for
// indexing. Generated copy and email sequences often arrive as HTML
// fragments; embedding raw tags wastes the token budget and drags down
// retrieval quality.
package sanitise

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML parsing performance.
var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
	htmlMarker        = regexp.MustCompile(`(?i)<(!doctype|html|body|p|div|br|h[1-6]|table|span|a)\b`)
)

// Text returns content as plain text. HTML input has its tags stripped
// and entities decoded; anything else passes through unchanged.
func Text(content string) string {
	if !looksLikeHTML(content) {
		return content
	}
	return stripHTML(content)
}

// looksLikeHTML reports whether the content carries HTML markup. A bare
// comparison operator in plain text must not trigger stripping.
func looksLikeHTML(content string) bool {
	return htmlMarker.MatchString(content)
}

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become newlines so the text stays readable.
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	// Trim each line and drop empty ones.
	parts := strings.Split(content, "\n")
	result := make([]string, 0, len(parts))
	for _, line := range parts {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
