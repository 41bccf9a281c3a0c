package visura

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress_Components(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		viaType string
		viaName string
		viaNum  string
		scala   string
		interno string
		piano   string
	}{
		{
			name:    "full address with all unit descriptors",
			raw:     "VIALE DELLA RIVIERA n. 285 Scala U Interno 1 Piano 1",
			viaType: "VIALE",
			viaName: "DELLA RIVIERA",
			viaNum:  "285",
			scala:   "U",
			interno: "1",
			piano:   "1",
		},
		{
			name:    "basic address with marker",
			raw:     "VIA XX SETTEMBRE n. 15",
			viaType: "VIA",
			viaName: "XX SETTEMBRE",
			viaNum:  "15",
		},
		{
			name:    "piazza is not a floor marker",
			raw:     "PIAZZA GARIBALDI n. 2",
			viaType: "PIAZZA",
			viaName: "GARIBALDI",
			viaNum:  "2",
		},
		{
			name:    "civic number without marker",
			raw:     "VIA ROMA 10",
			viaType: "VIA",
			viaName: "ROMA",
			viaNum:  "10",
		},
		{
			name:    "civic number with letter suffix is one token",
			raw:     "VIA ROMA 10A",
			viaType: "VIA",
			viaName: "ROMA",
			viaNum:  "10A",
		},
		{
			name:    "bare SNC leaves the civic number absent",
			raw:     "VIA DEI MILLE SNC",
			viaType: "VIA",
			viaName: "DEI MILLE",
		},
		{
			name:    "marked SNC leaves the civic number absent",
			raw:     "PIAZZA CAVOUR n. SNC",
			viaType: "PIAZZA",
			viaName: "CAVOUR",
		},
		{
			name:    "staircase without unit",
			raw:     "VIA MANZONI n. 5 Scala B",
			viaType: "VIA",
			viaName: "MANZONI",
			viaNum:  "5",
			scala:   "B",
		},
		{
			name:    "unit without staircase",
			raw:     "VIA MANZONI n. 5 Interno 7",
			viaType: "VIA",
			viaName: "MANZONI",
			viaNum:  "5",
			interno: "7",
		},
		{
			name:    "textual floor name kept uppercase",
			raw:     "VIA VERDI n. 3 Piano Terra",
			viaType: "VIA",
			viaName: "VERDI",
			viaNum:  "3",
			piano:   "TERRA",
		},
		{
			name:    "abbreviated floor marker",
			raw:     "VIA VERDI n. 3 P. 1",
			viaType: "VIA",
			viaName: "VERDI",
			viaNum:  "3",
			piano:   "1",
		},
		{
			name:    "locality without civic number",
			raw:     "LOCALITA COLLE ALTO",
			viaType: "LOCALITA",
			viaName: "COLLE ALTO",
		},
		{
			name:    "abbreviated fraction with civic number",
			raw:     "FRAZ. SAN PIETRO n. 12",
			viaType: "FRAZ",
			viaName: "SAN PIETRO",
			viaNum:  "12",
		},
		{
			name:    "digits embedded in the street name",
			raw:     "STRADA STATALE 16 250",
			viaType: "STRADA",
			viaName: "STATALE 16",
			viaNum:  "250",
		},
		{
			name:    "minimal valid form",
			raw:     "BORGO ANTICO",
			viaType: "BORGO",
			viaName: "ANTICO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := ParseAddress(tt.raw)

			assertOptional(t, tt.viaType, addr.ViaType, "via_type")
			assertOptional(t, tt.viaName, addr.ViaName, "via_name")
			assertOptional(t, tt.viaNum, addr.ViaNum, "via_num")
			assertOptional(t, tt.scala, addr.Scala, "scala")
			assertOptional(t, tt.interno, addr.Interno, "interno")
			assertOptional(t, tt.piano, addr.Piano, "piano")

			// The raw line must survive untouched no matter what parsing did.
			assert.Equal(t, tt.raw, addr.Raw)
		})
	}
}

// assertOptional checks an optional field: an empty expectation means the
// field must be absent, never an empty or defaulted value.
func assertOptional(t *testing.T, expected string, actual *string, field string) {
	t.Helper()
	if expected == "" {
		assert.Nil(t, actual, "%s should be absent", field)
		return
	}
	if assert.NotNil(t, actual, "%s should be present", field) {
		assert.Equal(t, expected, *actual, field)
	}
}

func TestParseAddress_TruncatesTrailingAnnotations(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		viaName string
	}{
		{
			name:    "annotation keyword",
			raw:     "VIA ROMA n. 10 Variazione del 01/01/2020",
			viaName: "ROMA",
		},
		{
			name:    "double space boundary",
			raw:     "VIA GARIBALDI n. 4  dati derivanti da aggiornamento",
			viaName: "GARIBALDI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := ParseAddress(tt.raw)
			if assert.NotNil(t, addr.ViaName) {
				assert.Equal(t, tt.viaName, *addr.ViaName)
			}
		})
	}
}

func TestParseAddress_FallbackKeepsWholeResidual(t *testing.T) {
	// Without a recognized street-type prefix the residual text becomes the
	// name verbatim, annotation truncation deliberately not applied.
	addr := ParseAddress("SALITA DEL CASTELLO  Annotazione di stadio")

	assert.Nil(t, addr.ViaType)
	if assert.NotNil(t, addr.ViaName) {
		assert.Equal(t, "SALITA DEL CASTELLO  Annotazione di stadio", *addr.ViaName)
	}
}

func TestParseAddress_NormalizesNewlines(t *testing.T) {
	addr := ParseAddress("VIA DEGLI\nORTI n. 7")

	if assert.NotNil(t, addr.ViaName) {
		assert.Equal(t, "DEGLI ORTI", *addr.ViaName)
	}
	if assert.NotNil(t, addr.ViaNum) {
		assert.Equal(t, "7", *addr.ViaNum)
	}
	assert.Equal(t, "VIA DEGLI\nORTI n. 7", addr.Raw)
}

func TestParseAddress_RepeatedRunsYieldIdenticalComponents(t *testing.T) {
	const in = "VIALE DELLA RIVIERA n. 285 Scala U Interno 1 Piano 1"

	assert.Equal(t, ParseAddress(in), ParseAddress(in))
}

func TestParseAddress_EmptyInput(t *testing.T) {
	addr := ParseAddress("")

	assert.Nil(t, addr.ViaType)
	assert.Nil(t, addr.ViaName)
	assert.Nil(t, addr.ViaNum)
	assert.Nil(t, addr.Scala)
	assert.Nil(t, addr.Interno)
	assert.Nil(t, addr.Piano)
	assert.Equal(t, "", addr.Raw)
}
