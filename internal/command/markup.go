package command

import (
	"regexp"
	"strings"
)

// allowedTags are the only tag names render output is permitted to
// carry; anything else is foreign markup and gets escaped rather than
// passed through, so a user-supplied object name can never inject
// rendering directives.
var allowedTags = map[string]bool{
	"bold": true, "italic": true, "underline": true,
	"h1": true, "h2": true, "h3": true,
	"red": true, "orange": true, "yellow": true, "green": true,
	"blue": true, "pink": true, "white": true, "grey": true, "brown": true,
	"code": true, "blank": true,
}

var tagPattern = regexp.MustCompile(`</?([a-zA-Z0-9]+)>`)

// SanitizeMarkup escapes every tag-shaped substring that isn't one of
// the render markup tags this module understands, so free text (an
// object name, a feedback message) can never forge a heading or color
// tag it didn't legitimately earn.
func SanitizeMarkup(s string) string {
	return tagPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := tagPattern.FindStringSubmatch(match)[1]
		if allowedTags[strings.ToLower(name)] {
			return match
		}
		return strings.ReplaceAll(strings.ReplaceAll(match, "<", "&lt;"), ">", "&gt;")
	})
}
