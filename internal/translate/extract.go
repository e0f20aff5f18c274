// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package translate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxDescription     = 160
	truncatedDescLimit = 157
)

var (
	headingLine    = regexp.MustCompile(`(?m)^#\s*(.+)$`)
	firstParagraph = regexp.MustCompile(`^([^\n#]+)`)
)

// ExtractTitleAndDescription pulls the first "# " heading as the title and
// the first paragraph after it as the description. Descriptions longer than
// 160 characters are cut to 157 plus "...". The fallbacks are used when
// either is missing.
func ExtractTitleAndDescription(content, fallbackTitle, fallbackDesc string) (title, desc string) {
	title = fallbackTitle
	if m := headingLine.FindStringSubmatch(content); m != nil {
		title = strings.TrimSpace(m[1])
	}

	rest := content
	if loc := headingLine.FindStringIndex(content); loc != nil {
		rest = content[:loc[0]] + content[loc[1]:]
	}
	rest = strings.TrimSpace(rest)

	desc = fallbackDesc
	if m := firstParagraph.FindStringSubmatch(rest); m != nil {
		desc = truncate(strings.TrimSpace(m[1]))
	}
	return title, desc
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxDescription {
		return s
	}
	runes := []rune(s)
	return string(runes[:truncatedDescLimit]) + "..."
}
