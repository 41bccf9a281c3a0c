package visura

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/openvisura/visura-extract/internal/pdf"
)

var (
	// "SURNAME Givenname (CF: RSSMRA80A01H501U)" on the first page.
	ownerIdentityRe = regexp.MustCompile(`^([A-ZÀÈÌÒÙ]{2,})\s+([A-Za-zÀÈÌÒÙàèìòù]+)\s+\(CF:\s*([A-Z0-9]{16})\)`)

	// "Immobili siti nel Comune di ROMA (Codice H501)" above each page's tables.
	comuneRe = regexp.MustCompile(`(?i)Immobili\s+siti\s+nel\s+Comune\s+di\s+(.+?)\s+\(Codice\s+([A-Z0-9]+)\)`)
)

// ownerIdentity is the document-scoped lessor identity from page 1.
type ownerIdentity struct {
	surname    *string
	name       *string
	fiscalCode *string
}

// comuneContext is the page-scoped municipality header. It never carries
// over from a previous page.
type comuneContext struct {
	name *string
	code *string
}

// ExtractResult is the outcome of parsing one visura document.
type ExtractResult struct {
	Path        string   `json:"path"`
	Pages       int      `json:"pages"`
	Records     []Record `json:"records"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Extractor parses visura catastale PDF documents into flat property
// records. Parsing is synchronous and single-threaded per document; callers
// wanting throughput parallelize across documents.
type Extractor struct {
	maxFileSize int64
}

// NewExtractor creates an extractor with the specified file size constraint.
func NewExtractor(maxFileSize int64) *Extractor {
	return &Extractor{
		maxFileSize: maxFileSize,
	}
}

// ParseFile opens a visura PDF and extracts every property record it
// contains. An unopenable document is the only fatal condition; everything
// else degrades to partial data with a diagnostic.
func (e *Extractor) ParseFile(path string) (*ExtractResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if e.maxFileSize > 0 && fileInfo.Size() > e.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), e.maxFileSize)
	}

	doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open visura document: %w", err)
	}
	defer doc.Close()

	return e.parseDocument(doc), nil
}

// parseDocument walks the open document page by page. A page-level failure
// is recorded and skipped; it never aborts the remaining pages.
func (e *Extractor) parseDocument(doc *pdf.Document) *ExtractResult {
	result := &ExtractResult{
		Path:  doc.Path(),
		Pages: doc.NumPages(),
	}

	identity := e.extractOwnerIdentity(doc, result)

	for pageNum := 1; pageNum <= doc.NumPages(); pageNum++ {
		lines, err := doc.PageLines(pageNum)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("page %d: text extraction failed: %v", pageNum, err))
			continue
		}

		comune := extractComune(lines)

		tables, err := doc.PageTables(pageNum)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("page %d: table extraction failed: %v", pageNum, err))
			continue
		}

		for _, grid := range tables {
			for _, rec := range buildRows(grid) {
				applyContext(&rec, identity, comune)
				result.Records = append(result.Records, rec)
			}
		}
	}

	return result
}

// extractOwnerIdentity scans the first page for the lessor name and fiscal
// code. A miss is non-fatal: records are still produced without identity.
func (e *Extractor) extractOwnerIdentity(doc *pdf.Document, result *ExtractResult) ownerIdentity {
	blocks, err := doc.PageBlocks(1)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("page 1: text extraction failed: %v", err))
		return ownerIdentity{}
	}

	identity, ok := matchOwnerIdentity(blocks)
	if !ok {
		result.Diagnostics = append(result.Diagnostics,
			"owner identity not found on page 1")
	}
	return identity
}

// matchOwnerIdentity scans cell-scoped text blocks for the lessor line. The
// pattern is anchored at the block start; per-cell scoping keeps text that
// shares the baseline in a neighbouring cell (a row number, a left-column
// label) from defeating the anchor.
func matchOwnerIdentity(blocks []string) (ownerIdentity, bool) {
	for _, block := range blocks {
		if m := ownerIdentityRe.FindStringSubmatch(strings.TrimSpace(block)); m != nil {
			return ownerIdentity{
				surname:    strPtr(m[1]),
				name:       strPtr(m[2]),
				fiscalCode: strPtr(m[3]),
			}, true
		}
	}
	return ownerIdentity{}, false
}

// extractComune finds the page's municipality header line, if any.
func extractComune(lines []string) comuneContext {
	for _, line := range lines {
		if m := comuneRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return comuneContext{
				name: strPtr(m[1]),
				code: strPtr(m[2]),
			}
		}
	}
	return comuneContext{}
}

// applyContext copies the document and page context into one record.
func applyContext(rec *Record, identity ownerIdentity, comune comuneContext) {
	rec.LocatoreSurname = identity.surname
	rec.LocatoreName = identity.name
	rec.LocatoreCodiceFiscale = identity.fiscalCode
	rec.ImmobileComune = comune.name
	rec.ImmobileComuneCode = comune.code
}
