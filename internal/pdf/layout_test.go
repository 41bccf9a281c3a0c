package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// word is a test shorthand for a positioned word with a fixed width.
func word(text string, x, y float64) Word {
	return Word{Text: text, X: x, Y: y, W: float64(len(text)) * 5, FontSize: 10}
}

func TestLines_GroupsByYAndOrdersByX(t *testing.T) {
	g := NewGridBuilder()

	// Words arrive unordered, as the content stream emits them.
	words := []Word{
		word("Comune", 40, 700),
		word("di", 80, 700),
		word("PESCARA", 95, 700.5), // same line within tolerance
		word("Foglio", 40, 680),
		word("15", 80, 680),
	}

	lines := g.Lines(words)
	require.Len(t, lines, 2)
	assert.Equal(t, "Comune di PESCARA", lines[0])
	assert.Equal(t, "Foglio 15", lines[1])
}

func TestLines_TopToBottom(t *testing.T) {
	g := NewGridBuilder()

	lines := g.Lines([]Word{
		word("bottom", 10, 100),
		word("top", 10, 700),
		word("middle", 10, 400),
	})

	assert.Equal(t, []string{"top", "middle", "bottom"}, lines)
}

func TestLines_Empty(t *testing.T) {
	assert.Empty(t, NewGridBuilder().Lines(nil))
}

func TestBlocks_SplitsSameBaselineCells(t *testing.T) {
	g := NewGridBuilder()

	// A row-number cell shares the baseline with the name cell. Blocks must
	// keep them apart where Lines would merge them into one string.
	words := []Word{
		word("1", 40, 700),
		word("ROSSI", 120, 700), word("Mario", 150, 700),
		word("(CF:", 185, 700), word("RSSMRA80A01H501U)", 210, 700),
	}

	blocks := g.Blocks(words)
	require.Len(t, blocks, 2)
	assert.Equal(t, "1", blocks[0])
	assert.Equal(t, "ROSSI Mario (CF: RSSMRA80A01H501U)", blocks[1])
}

func TestBlocks_OrderedTopToBottomLeftToRight(t *testing.T) {
	g := NewGridBuilder()

	blocks := g.Blocks([]Word{
		word("right", 200, 700),
		word("left", 40, 700),
		word("below", 40, 680),
	})

	assert.Equal(t, []string{"left", "right", "below"}, blocks)
}

func TestBuildTables_SimpleGrid(t *testing.T) {
	g := NewGridBuilder()

	// Two header cells plus two data rows laid out in three columns. The
	// gaps between columns exceed CellGap so each word is its own cell.
	words := []Word{
		word("Foglio", 40, 700), word("Numero", 140, 700), word("Sub", 240, 700),
		word("15", 40, 685), word("234", 140, 685), word("5", 240, 685),
		word("16", 40, 670), word("300", 140, 670), word("1", 240, 670),
	}

	tables := g.BuildTables(words)
	require.Len(t, tables, 1)

	grid := tables[0]
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Foglio", "Numero", "Sub"}, grid[0])
	assert.Equal(t, []string{"15", "234", "5"}, grid[1])
	assert.Equal(t, []string{"16", "300", "1"}, grid[2])
}

func TestBuildTables_MissingCellLandsInRightColumn(t *testing.T) {
	g := NewGridBuilder()

	words := []Word{
		word("Foglio", 40, 700), word("Numero", 140, 700), word("Sub", 240, 700),
		// Second row has no Numero cell; Sub must still land in column 2.
		word("15", 40, 685), word("5", 240, 685),
	}

	tables := g.BuildTables(words)
	require.Len(t, tables, 1)

	grid := tables[0]
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"15", "", "5"}, grid[1])
}

func TestBuildTables_MultiWordCell(t *testing.T) {
	g := NewGridBuilder()

	// "VIA ROMA" sits in one cell: the intra-cell gap stays under CellGap.
	words := []Word{
		word("Foglio", 40, 700), word("Categoria", 140, 700), word("Indirizzo", 240, 700),
		word("15", 40, 685), word("A/2", 140, 685),
		word("VIA", 240, 685), word("ROMA", 262, 685),
	}

	tables := g.BuildTables(words)
	require.Len(t, tables, 1)
	assert.Equal(t, "VIA ROMA", tables[0][1][2])
}

func TestBuildTables_ProseIsNotATable(t *testing.T) {
	g := NewGridBuilder()

	// Single-cell lines never open a table run.
	words := []Word{
		word("Visura", 40, 700), word("per", 74, 700), word("soggetto", 92, 700),
		word("aggiornata", 40, 685), word("agli", 95, 685), word("atti", 118, 685),
	}

	assert.Empty(t, g.BuildTables(words))
}

func TestBuildTables_TooFewColumnsRejected(t *testing.T) {
	g := NewGridBuilder()

	// Two-column blocks stay under MinCols and are discarded.
	words := []Word{
		word("Chiave", 40, 700), word("Valore", 200, 700),
		word("Data", 40, 685), word("01/01/2024", 200, 685),
	}

	assert.Empty(t, g.BuildTables(words))
}

func TestBuildTables_SeparatesBlocks(t *testing.T) {
	g := NewGridBuilder()

	words := []Word{
		// First table.
		word("Foglio", 40, 700), word("Numero", 140, 700), word("Sub", 240, 700),
		word("15", 40, 685), word("234", 140, 685), word("5", 240, 685),
		// Prose between the two tables.
		word("Annotazioni", 40, 650),
		// Second table.
		word("Foglio", 40, 620), word("Numero", 140, 620), word("Sub", 240, 620),
		word("16", 40, 605), word("300", 140, 605), word("1", 240, 605),
	}

	tables := g.BuildTables(words)
	require.Len(t, tables, 2)
	assert.Equal(t, "15", tables[0][1][0])
	assert.Equal(t, "16", tables[1][1][0])
}
