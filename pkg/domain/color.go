package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// NormalizeColor coerces the supported color forms into a canonical
// uppercase "#RRGGBB" string. Invalid input yields DefaultColor rather than
// an error so a bad color can never fail a write. This is the single
// normalization used everywhere; do not duplicate it per call site.
func NormalizeColor(v any) string {
	switch c := v.(type) {
	case nil:
		return DefaultColor
	case string:
		return normalizeColorString(c)
	case []any:
		return normalizeColorChannels(c)
	case []int:
		channels := make([]any, len(c))
		for i, n := range c {
			channels[i] = n
		}
		return normalizeColorChannels(channels)
	case map[string]any:
		return normalizeColorChannels([]any{c["r"], c["g"], c["b"]})
	default:
		return DefaultColor
	}
}

func normalizeColorString(s string) string {
	s = strings.TrimSpace(s)
	if !hexColorRe.MatchString(s) {
		return DefaultColor
	}
	return "#" + strings.ToUpper(s[1:])
}

func normalizeColorChannels(channels []any) string {
	if len(channels) != 3 {
		return DefaultColor
	}
	var rgb [3]int
	for i, raw := range channels {
		n, ok := colorChannel(raw)
		if !ok {
			return DefaultColor
		}
		rgb[i] = n
	}
	return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])
}

// colorChannel accepts the numeric forms JSON decoding produces.
func colorChannel(v any) (int, bool) {
	var n int
	switch c := v.(type) {
	case int:
		n = c
	case int64:
		n = int(c)
	case float64:
		if c != float64(int(c)) {
			return 0, false
		}
		n = int(c)
	default:
		return 0, false
	}
	if n < 0 || n > 255 {
		return 0, false
	}
	return n, true
}
