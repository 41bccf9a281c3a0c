package visura

import (
	"regexp"
	"strings"
)

// Section-group banners that some tables carry above the real column
// headers. When present, the true header is the second row.
var groupedHeaderMarkers = []string{
	"DATI IDENTIFICATIVI",
	"DATI DI CLASSAMENTO",
	"ALTRE INFORMAZIONI",
}

// Personal-registry markers. A table whose header mentions these describes
// people (intestazione), not property, and must never contribute rows.
var ownershipMarkers = []string{
	"DATI ANAGRAFICI",
	"DIRITTI E ONERI REALI",
}

// Canonical cadastral column names. A table is accepted as a property table
// only if its header carries at least one of them.
var propertyColumns = []string{"Foglio", "Numero", "Sub", "Categoria", "Classe"}

// headerRule is one positional fix for a known header artifact of the visura
// template family. New template variants are added here as data, not as new
// code branches.
type headerRule struct {
	index   int    // column index the rule applies to, -1 for any
	match   string // cleaned header text to match, "" matches an empty cell
	replace string // canonical name to substitute
}

var headerRules = []headerRule{
	{index: 0, match: "", replace: "table_num_immobile"},
	{index: 8, match: "", replace: "classe"},
	{index: -1, match: "Classe Consistenza", replace: "consistenza"},
}

// columnKind selects how a cell value is folded into the record.
type columnKind int

const (
	columnPlain columnKind = iota
	columnAddress
	columnArea
)

// columnHandlers is the closed mapping from canonical column name to the
// sub-parser that handles it. Everything else is stored as a trimmed string.
var columnHandlers = map[string]columnKind{
	"indirizzo":            columnAddress,
	"superficie_catastale": columnArea,
}

var nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// normalizeHeader converts a header cell to snake_case:
// "Zona Cens." -> "zona_cens", "Dati Ulteriori" -> "dati_ulteriori".
func normalizeHeader(header string) string {
	snake := nonAlnumRe.ReplaceAllString(header, "_")
	return strings.ToLower(strings.Trim(snake, "_"))
}

// cleanCell collapses newlines and surrounding whitespace in one cell.
func cleanCell(cell string) string {
	return strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
}

// buildRows turns one raw grid of cell strings into zero or more property
// records. Tables that are not property tables yield nil.
func buildRows(grid [][]string) []Record {
	if len(grid) == 0 {
		return nil
	}

	headerRow, dataStart := locateHeader(grid)
	if len(grid) <= headerRow {
		return nil
	}

	header := make([]string, len(grid[headerRow]))
	for i, cell := range grid[headerRow] {
		header[i] = cleanCell(cell)
	}

	joined := strings.ToUpper(strings.Join(header, " "))
	for _, marker := range ownershipMarkers {
		if strings.Contains(joined, marker) {
			return nil
		}
	}

	if !hasPropertyColumn(header) {
		return nil
	}

	names := make([]string, len(header))
	for i, cell := range header {
		names[i] = normalizeHeader(reconcileHeader(i, cell))
	}

	var records []Record
	for i := dataStart; i < len(grid); i++ {
		records = append(records, buildRecord(names, grid[i]))
	}
	return records
}

// locateHeader returns the header row index and the first data row index,
// accounting for the optional section-group banner row.
func locateHeader(grid [][]string) (headerRow, dataStart int) {
	firstRow := strings.ToUpper(strings.Join(grid[0], " "))
	for _, marker := range groupedHeaderMarkers {
		if strings.Contains(firstRow, marker) {
			return 1, 2
		}
	}
	return 0, 1
}

func hasPropertyColumn(header []string) bool {
	for _, cell := range header {
		for _, col := range propertyColumns {
			if cell == col {
				return true
			}
		}
	}
	return false
}

// reconcileHeader applies the positional fix table before generic
// normalization.
func reconcileHeader(index int, cell string) string {
	for _, rule := range headerRules {
		if rule.index >= 0 && rule.index != index {
			continue
		}
		if cell == rule.match {
			return rule.replace
		}
	}
	return cell
}

// buildRecord assigns each cell of one data row to its normalized column,
// routing address and area columns through their sub-parsers.
func buildRecord(names []string, row []string) Record {
	var rec Record
	for i, name := range names {
		if i >= len(row) {
			break
		}
		kind := resolveHandler(name)
		if kind != columnPlain && strings.TrimSpace(row[i]) == "" {
			// An empty cell contributes nothing, not empty components.
			continue
		}

		switch kind {
		case columnAddress:
			// The sub-parsers keep the untouched cell text as their raw field.
			mergeAddress(&rec, ParseAddress(row[i]))
		case columnArea:
			mergeArea(&rec, ParseArea(row[i]))
		default:
			setField(&rec, name, strings.TrimSpace(row[i]))
		}
	}
	return rec
}

// resolveHandler looks a column up in the closed handler map. Address
// columns appear under composite headers too ("Indirizzo Immobile"), so any
// name containing "indirizzo" routes through the address parser.
func resolveHandler(name string) columnKind {
	if kind, ok := columnHandlers[name]; ok {
		return kind
	}
	if strings.Contains(name, "indirizzo") {
		return columnAddress
	}
	return columnPlain
}

func mergeAddress(rec *Record, addr AddressComponents) {
	rec.ViaType = addr.ViaType
	rec.ViaName = addr.ViaName
	rec.ViaNum = addr.ViaNum
	rec.Scala = addr.Scala
	rec.Interno = addr.Interno
	rec.Piano = addr.Piano
	rec.IndirizzoRaw = strPtr(addr.Raw)
}

func mergeArea(rec *Record, area AreaMeasurements) {
	rec.SuperficieTotale = area.Totale
	rec.SuperficieEscluse = area.Escluse
	rec.SuperficieRaw = strPtr(area.Raw)
}

// setField stores a plain column. Empty cells stay absent, with one
// exception: an empty sub-unit cell is a legitimate value and is kept as the
// empty string.
func setField(rec *Record, name, value string) {
	if name == "" {
		return
	}
	if value == "" && name != "sub" {
		return
	}

	switch name {
	case "table_num_immobile":
		rec.TableNum = strPtr(value)
	case "sezione_urbana", "sez_urbana":
		rec.SezUrbana = strPtr(value)
	case "foglio":
		rec.Foglio = strPtr(value)
	case "numero":
		rec.Numero = strPtr(value)
	case "sub":
		rec.Sub = strPtr(value)
	case "zona_cens", "zona_censuaria":
		rec.ZonaCens = strPtr(value)
	case "micro_zona", "microzona":
		rec.MicroZona = strPtr(value)
	case "categoria":
		rec.Categoria = strPtr(value)
	case "classe":
		rec.Classe = strPtr(value)
	case "consistenza":
		rec.Consistenza = strPtr(value)
	case "rendita":
		rec.Rendita = strPtr(value)
	default:
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[name] = value
	}
}
