// Package sanitize cleans free text submitted through the public forms and the back office.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	blankPattern = regexp.MustCompile(`[ \t\f\v]+`)
	gapPattern   = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes tags, decodes entities, then removes any tag the decoding revealed.
func StripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// Text cleans multi-line input such as notes and descriptions. Line breaks are
// kept, runs of spaces collapse to one and at most one blank line separates paragraphs.
func Text(s string) string {
	s = strings.ReplaceAll(StripHTML(s), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(blankPattern.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(gapPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// Line cleans single-line input such as names: every whitespace run becomes one space.
func Line(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}

func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}

func LinePtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Line(*s)
	return &out
}
