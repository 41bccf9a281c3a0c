package visura

import (
	"regexp"
	"strings"
)

// Address lines in a visura mix the street name with civic number, staircase,
// unit and floor markers in no fixed order. Parsing runs as an ordered
// pipeline: each step searches the remaining text, captures its value and
// deletes the matched substring (leaving a single space) before the next
// step runs. Only after all unit descriptors are gone is the residual text
// matched against the street-type vocabulary. The ordering matters: a unit
// marker left in place would corrupt the street-name boundary.
var (
	// Civic number with an explicit "n." marker, e.g. "n. 285", "n. SNC".
	civicMarkerRe = regexp.MustCompile(`(?i)\bn\.?\s*(\d+[A-Z]?(?:[-/][A-Z0-9]+)*|SNC)\b`)
	// Bare civic number token, used when no marker is present.
	civicBareRe = regexp.MustCompile(`(?i)\b(\d+[A-Z]?(?:[-/][A-Z0-9]+)*)\b`)
	sncRe       = regexp.MustCompile(`(?i)\bSNC\b`)

	scalaRe   = regexp.MustCompile(`(?i)\b(?:SCALA|SC\.)\s*([A-Z0-9]+)\b`)
	internoRe = regexp.MustCompile(`(?i)\b(?:INTERNO|INT\.)\s*([A-Z0-9]+)\b`)
	// The abbreviated floor marker requires a dot and trailing space so that
	// "PIAZZA ..." and "P.ZZA ..." are never read as a floor.
	pianoRe = regexp.MustCompile(`(?i)\b(?:PIANO|P\.)\s+([A-Z0-9°-]+)\b`)

	streetTypeRe = regexp.MustCompile(`(?i)^(VIA|VIALE|PIAZZA|P\.?ZZA|CORSO|STRADA|VICOLO|LARGO|BORGO|LOCALITÀ|LOCALITA|LOC\.?|FRAZIONE|FRAZ\.?|CONTRADA)\s+(.+)$`)

	// Trailing metadata appended by the source system after the real street
	// name: a run of two or more spaces or an annotation keyword.
	annotationRe = regexp.MustCompile(`\s{2,}|Variazione|Annotazione|Aggiornamento`)
)

// ParseAddress decomposes one free-text Italian address line into its
// components. It is pure and deterministic; Raw always preserves the
// original input byte-for-byte.
func ParseAddress(text string) AddressComponents {
	raw := text
	clean := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))

	addr := AddressComponents{Raw: raw}

	clean = extractCivicNumber(clean, &addr)
	clean = extractUnit(clean, scalaRe, &addr.Scala)
	clean = extractUnit(clean, internoRe, &addr.Interno)
	clean = extractUnit(clean, pianoRe, &addr.Piano)

	clean = strings.TrimSpace(clean)

	if m := streetTypeRe.FindStringSubmatch(clean); m != nil {
		addr.ViaType = strPtr(strings.TrimSuffix(m[1], "."))
		name := m[2]
		// Keep only the text before trailing annotation metadata. This
		// truncation is applied in the matched branch only: without a
		// recognized street type there is no reliable boundary to anchor on.
		if loc := annotationRe.FindStringIndex(name); loc != nil {
			name = name[:loc[0]]
		}
		if name = strings.TrimSpace(name); name != "" {
			addr.ViaName = strPtr(name)
		}
	} else if clean != "" {
		addr.ViaName = strPtr(clean)
	}

	return addr
}

// extractCivicNumber finds the civic number and deletes it from the working
// text. An explicit "n." marker wins; otherwise a literal "SNC" anywhere
// marks the address as having no civic number; otherwise the last bare
// numeric token is taken, so that digits embedded in the street name itself
// ("STRADA STATALE 16 250") are not mistaken for the civic number.
func extractCivicNumber(clean string, addr *AddressComponents) string {
	if loc := civicMarkerRe.FindStringSubmatchIndex(clean); loc != nil {
		value := clean[loc[2]:loc[3]]
		if !strings.EqualFold(value, "SNC") {
			addr.ViaNum = strPtr(strings.ToUpper(value))
		}
		return cutRange(clean, loc[0], loc[1])
	}

	if loc := sncRe.FindStringIndex(clean); loc != nil {
		// "senza numero civico": the field stays absent, the token is
		// consumed so it cannot leak into the street name.
		return cutRange(clean, loc[0], loc[1])
	}

	locs := civicBareRe.FindAllStringSubmatchIndex(clean, -1)
	if len(locs) == 0 {
		return clean
	}
	last := locs[len(locs)-1]
	addr.ViaNum = strPtr(strings.ToUpper(clean[last[2]:last[3]]))
	return cutRange(clean, last[0], last[1])
}

// extractUnit applies one unit-descriptor pattern, storing the uppercased
// capture and deleting the whole match from the working text.
func extractUnit(clean string, re *regexp.Regexp, field **string) string {
	loc := re.FindStringSubmatchIndex(clean)
	if loc == nil {
		return clean
	}
	*field = strPtr(strings.ToUpper(clean[loc[2]:loc[3]]))
	return cutRange(clean, loc[0], loc[1])
}

// cutRange removes [start,end) from s, leaving a single space in its place.
func cutRange(s string, start, end int) string {
	return s[:start] + " " + s[end:]
}
