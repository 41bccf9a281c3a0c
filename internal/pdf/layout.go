package pdf

import (
	"sort"
	"strings"
)

const (
	lineTolerance  = 3.0  // Y distance within which runs belong to one line
	defaultWordGap = 1.0  // merge gap when the font size is unknown
	wordGapRatio   = 0.35 // fraction of font size treated as intra-word gap
)

// Word is one positioned word on a page. Coordinates follow the PDF
// convention: origin at the lower left, Y growing upward.
type Word struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// cell is a run of words separated from its neighbours by a column gap.
type cell struct {
	text string
	x0   float64
	x1   float64
}

// GridBuilder reconstructs layout tables from positioned words: words are
// clustered into lines by Y, lines are split into cells at wide horizontal
// gaps, and runs of consecutive multi-cell lines become one table whose
// column edges are derived from the cell start positions of the whole run.
type GridBuilder struct {
	RowTolerance float64 // Y distance within which words share a line
	CellGap      float64 // minimum horizontal gap separating two cells
	ColTolerance float64 // X distance within which cell starts share a column
	MinRows      int     // minimum lines for a block to count as a table
	MinCols      int     // minimum columns for a block to count as a table
}

// NewGridBuilder returns a builder tuned for the visura template family.
func NewGridBuilder() *GridBuilder {
	return &GridBuilder{
		RowTolerance: 3.0,
		CellGap:      14.0,
		ColTolerance: 7.0,
		MinRows:      2,
		MinCols:      3,
	}
}

// Lines returns the page text as one string per line, top to bottom, words
// joined by single spaces.
func (g *GridBuilder) Lines(words []Word) []string {
	lines := g.clusterLines(words)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		parts := make([]string, len(line))
		for i, w := range line {
			parts[i] = w.Text
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out
}

// Blocks returns the page text as cell-scoped units, top to bottom and left
// to right within a line. Unlike Lines, text sharing a baseline with other
// cells comes out as separate blocks, so anchored patterns can match a cell
// without interference from its neighbours.
func (g *GridBuilder) Blocks(words []Word) []string {
	var out []string
	for _, line := range g.clusterLines(words) {
		for _, c := range g.splitCells(line) {
			out = append(out, c.text)
		}
	}
	return out
}

// BuildTables returns every detected table as a grid of cell strings.
func (g *GridBuilder) BuildTables(words []Word) [][][]string {
	lines := g.clusterLines(words)

	cellRows := make([][]cell, len(lines))
	for i, line := range lines {
		cellRows[i] = g.splitCells(line)
	}

	var tables [][][]string
	start := -1
	for i := 0; i <= len(cellRows); i++ {
		tabular := i < len(cellRows) && len(cellRows[i]) >= 2
		switch {
		case tabular && start < 0:
			start = i
		case !tabular && start >= 0:
			if grid := g.buildGrid(cellRows[start:i]); grid != nil {
				tables = append(tables, grid)
			}
			start = -1
		}
	}
	return tables
}

// clusterLines groups words into lines by Y proximity and sorts each line by
// X. Lines come out top to bottom.
func (g *GridBuilder) clusterLines(words []Word) [][]Word {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]Word
	var current []Word
	currentY := sorted[0].Y

	for _, w := range sorted {
		if len(current) > 0 && currentY-w.Y > g.RowTolerance {
			lines = append(lines, sortByX(current))
			current = nil
		}
		if len(current) == 0 {
			currentY = w.Y
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		lines = append(lines, sortByX(current))
	}

	return lines
}

func sortByX(line []Word) []Word {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	return line
}

// splitCells cuts one line into cells wherever the gap between adjacent
// words exceeds the cell gap.
func (g *GridBuilder) splitCells(line []Word) []cell {
	var cells []cell
	var cur *cell

	for _, w := range line {
		if cur != nil && w.X-cur.x1 < g.CellGap {
			cur.text += " " + w.Text
			cur.x1 = w.X + w.W
			continue
		}
		if cur != nil {
			cells = append(cells, *cur)
		}
		cur = &cell{text: w.Text, x0: w.X, x1: w.X + w.W}
	}
	if cur != nil {
		cells = append(cells, *cur)
	}

	return cells
}

// buildGrid turns one run of tabular lines into a rectangular grid. Column
// edges come from clustering the cell start positions across the whole run,
// so rows with missing cells still land in the right columns.
func (g *GridBuilder) buildGrid(rows [][]cell) [][]string {
	if len(rows) < g.MinRows {
		return nil
	}

	edges := g.columnEdges(rows)
	if len(edges) < g.MinCols {
		return nil
	}

	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = make([]string, len(edges))
		for _, c := range row {
			col := g.columnFor(edges, c.x0)
			if grid[i][col] == "" {
				grid[i][col] = c.text
			} else {
				grid[i][col] += " " + c.text
			}
		}
	}
	return grid
}

// columnEdges clusters cell start positions into column start coordinates.
func (g *GridBuilder) columnEdges(rows [][]cell) []float64 {
	var starts []float64
	for _, row := range rows {
		for _, c := range row {
			starts = append(starts, c.x0)
		}
	}
	sort.Float64s(starts)

	var edges []float64
	for _, x := range starts {
		if len(edges) == 0 || x-edges[len(edges)-1] > g.ColTolerance {
			edges = append(edges, x)
		}
	}
	return edges
}

// columnFor returns the index of the rightmost column edge at or left of x0.
func (g *GridBuilder) columnFor(edges []float64, x0 float64) int {
	col := 0
	for i, e := range edges {
		if x0 >= e-g.ColTolerance {
			col = i
		}
	}
	return col
}
