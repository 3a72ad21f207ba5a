package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Durations holds the minute values recovered from free text. nil means the
// phrase was not found; an explicit "0 min" parses to a zero value.
type Durations struct {
	Prep  *int
	Cook  *int
	Total *int
}

var (
	prepLabelRe  = regexp.MustCompile(`\bprep(?:aration)?\b`)
	cookLabelRe  = regexp.MustCompile(`\b(?:cook(?:ing)?|bak(?:e|ing)|roast(?:ing)?|grill(?:ing)?)\b`)
	totalLabelRe = regexp.MustCompile(`\b(?:total|overall)\b`)

	// durationValueRe is anchored to the text immediately following a label:
	// an optional filler word, then an hour part and/or a minute part. The
	// values belonging to one label end where this match ends, so labels
	// sharing a line cannot pick up each other's numbers.
	durationValueRe = regexp.MustCompile(`^(?:\s*(?:time|for))?[\s:\-]*(?:(\d+)\s*(?:hours?|hrs?|hr|h)\b)?[\s,]*(?:(\d+)\s*(?:minutes?|mins?|min|m)\b)?`)
)

// ParseDurations scans text for labeled duration phrases and returns the
// extracted minute values. It is a best-effort heuristic: unparsable text
// simply leaves fields unset, and it never fails.
func ParseDurations(text string) Durations {
	folded := strings.ToLower(text)

	var d Durations
	d.Prep = labeledMinutes(folded, prepLabelRe)
	d.Cook = labeledMinutes(folded, cookLabelRe)
	d.Total = labeledMinutes(folded, totalLabelRe)
	if d.Total == nil && d.Prep != nil && d.Cook != nil {
		total := *d.Prep + *d.Cook
		d.Total = &total
	}
	return d
}

// labeledMinutes walks the label's occurrences and returns the hour+minute
// value attached directly to the first one that carries any. A label with
// no adjacent value (a bare mention mid-sentence) is skipped rather than
// consuming the lookup.
func labeledMinutes(text string, label *regexp.Regexp) *int {
	for _, loc := range label.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		m := durationValueRe.FindStringSubmatch(rest)
		if m == nil || (m[1] == "" && m[2] == "") {
			continue
		}
		minutes := 0
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			minutes += n * 60
		}
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			minutes += n
		}
		return &minutes
	}
	return nil
}

// durationSource joins the fields the duration parser is defined over.
func durationSource(instructions []string, notes string) string {
	parts := append([]string(nil), instructions...)
	if notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "\n")
}
