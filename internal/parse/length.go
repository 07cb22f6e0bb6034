package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// feet part is optional; the inch part may follow it or stand alone.
	lengthRe = regexp.MustCompile(`(?i)^(?:(\d+(?:\.\d+)?)\s*(?:'|′|ft\.?|feet|foot))?\s*(?:(\d+(?:\.\d+)?)\s*(?:"|″|''|in\.?|inch|inches)?)?$`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Inches parses a wall length typed by a visitor and returns it in inches.
//
// Accepted forms: 118, 118.5, 118in, 118", 9', 9ft, 9' 10", 9'10, 9ft 10in.
func Inches(raw string) (float64, error) {
	s := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}

	m := lengthRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, fmt.Errorf("unable to parse length: %q", raw)
	}

	var total float64
	if m[1] != "" {
		feet, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid feet in %q: %w", raw, err)
		}
		total += feet * 12
	}
	if m[2] != "" {
		inches, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid inches in %q: %w", raw, err)
		}
		total += inches
	}
	return total, nil
}
