package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document wraps one open PDF file. The caller owns the handle and must
// Close it on every exit path.
type Document struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	grids  *GridBuilder
}

// Open opens a PDF file for extraction.
func Open(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	return &Document{
		path:   path,
		file:   f,
		reader: reader,
		grids:  NewGridBuilder(),
	}, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// PageWords returns the positioned words of one page, assembled from the raw
// text runs in reading order. Pages are 1-based.
func (d *Document) PageWords(pageNum int) ([]Word, error) {
	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return nil, fmt.Errorf("invalid page number %d", pageNum)
	}

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d has no content", pageNum)
	}

	content, err := pageContent(page)
	if err != nil {
		return nil, err
	}

	return assembleWords(content.Text), nil
}

// PageLines returns the text of one page as lines reconstructed from the
// positioned words, top to bottom.
func (d *Document) PageLines(pageNum int) ([]string, error) {
	words, err := d.PageWords(pageNum)
	if err != nil {
		return nil, err
	}
	return d.grids.Lines(words), nil
}

// PageBlocks returns the text of one page as cell-scoped blocks, top to
// bottom and left to right within a line.
func (d *Document) PageBlocks(pageNum int) ([]string, error) {
	words, err := d.PageWords(pageNum)
	if err != nil {
		return nil, err
	}
	return d.grids.Blocks(words), nil
}

// PageTables reconstructs the layout tables of one page as grids of cell
// strings.
func (d *Document) PageTables(pageNum int) ([][][]string, error) {
	words, err := d.PageWords(pageNum)
	if err != nil {
		return nil, err
	}
	return d.grids.BuildTables(words), nil
}

// pageContent isolates the library call: ledongthuc/pdf panics on some
// malformed content streams, and a single bad page must not abort the
// document.
func pageContent(page pdf.Page) (content pdf.Content, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content extraction failed: %v", r)
		}
	}()
	content = page.Content()
	return content, nil
}

// assembleWords merges adjacent text runs of the same line into words. Runs
// are merged when the horizontal gap between them is smaller than a fraction
// of the font size.
func assembleWords(runs []pdf.Text) []Word {
	var words []Word
	var cur *Word

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			cur.Text = strings.TrimSpace(cur.Text)
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, run := range runs {
		if cur == nil {
			w := newWord(run)
			cur = &w
			continue
		}

		sameLine := abs(run.Y-cur.Y) <= lineTolerance
		gap := run.X - (cur.X + cur.W)
		if sameLine && gap <= wordGap(cur.FontSize) && run.S != " " {
			cur.Text += run.S
			cur.W = run.X + run.W - cur.X
			continue
		}

		flush()
		w := newWord(run)
		cur = &w
	}
	flush()

	return words
}

func newWord(run pdf.Text) Word {
	return Word{
		Text:     run.S,
		X:        run.X,
		Y:        run.Y,
		W:        run.W,
		FontSize: run.FontSize,
	}
}

func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return defaultWordGap
	}
	return fontSize * wordGapRatio
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
