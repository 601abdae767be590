package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and removes all whitespace, for loose
// comparisons.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// CollapseWhitespace turns every run of whitespace (line breaks included)
// into a single space and trims the ends.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

const (
	commentOpen  = "<!--"
	commentClose = "-->"
)

// StripComments removes everything from the first "<!--" to the last "-->"
// of a single line of text. An unclosed "<!--" runs to the end of the line
// and orphaned "-->" are dropped, so the result contains neither. This is
// plain text cleanup, the input is not treated as markup. Line breaks must
// already be collapsed.
func StripComments(line string) string {
	for {
		stripped := stripComment(line)
		if stripped == line {
			return line
		}
		line = stripped
	}
}

func stripComment(line string) string {
	start := strings.Index(line, commentOpen)
	if start < 0 {
		return strings.Replace(line, commentClose, "", 1)
	}
	end := strings.LastIndex(line, commentClose)
	if end < start+len(commentOpen) {
		return line[:start]
	}
	return line[:start] + line[end+len(commentClose):]
}

// CleanName produces a single line display name: line breaks collapsed,
// comment residue stripped, whitespace normalized. Invalid UTF-8 is
// replaced so the name survives a JSON round trip.
func CleanName(text string) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	return CollapseWhitespace(StripComments(CollapseWhitespace(text)))
}
