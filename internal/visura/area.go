package visura

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	superficieTotaleRe  = regexp.MustCompile(`Totale:\s*([0-9.,]+)`)
	superficieEscluseRe = regexp.MustCompile(`Totale escluse aree\s*scoperte\*\*:\s*([0-9.,]+)`)
)

// ParseArea extracts the total area and the total excluding uncovered
// outdoor space from one "Superficie Catastale" cell. Either value may be
// absent; the raw text is always preserved.
func ParseArea(text string) AreaMeasurements {
	txt := strings.ReplaceAll(text, "\n", " ")
	area := AreaMeasurements{Raw: text}

	if m := superficieTotaleRe.FindStringSubmatch(txt); m != nil {
		area.Totale = parseDecimal(m[1])
	}
	if m := superficieEscluseRe.FindStringSubmatch(txt); m != nil {
		area.Escluse = parseDecimal(m[1])
	}
	return area
}

// parseDecimal converts an Italian-formatted number (decimal comma, optional
// interior spaces) to a float. Unparseable input yields nil rather than a
// fabricated value.
func parseDecimal(s string) *float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
