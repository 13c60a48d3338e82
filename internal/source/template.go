package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var indexVerb = regexp.MustCompile(`%[-+# 0]*[0-9]*d`)

// Template maps a frame index to its address.
type Template func(index int) string

// PrefixTemplate produces {prefix}{index}.png addresses.
func PrefixTemplate(prefix string) Template {
	return func(index int) string {
		return prefix + strconv.Itoa(index) + ".png"
	}
}

// FormatTemplate feeds the index to a fmt verb, e.g. "frames/%03d.png".
func FormatTemplate(format string) Template {
	return func(index int) string {
		return fmt.Sprintf(format, index)
	}
}

// ParseTemplate treats a template holding exactly one integer verb (and
// otherwise only %% escapes) as a format string. Anything else, including
// percent-encoded prefixes like "my%20frames/", is a prefix.
func ParseTemplate(s string) Template {
	if isIndexFormat(s) {
		return FormatTemplate(s)
	}
	return PrefixTemplate(s)
}

func isIndexFormat(s string) bool {
	rest := strings.ReplaceAll(s, "%%", "")
	if len(indexVerb.FindAllStringIndex(rest, -1)) != 1 {
		return false
	}
	return !strings.Contains(indexVerb.ReplaceAllString(rest, ""), "%")
}
