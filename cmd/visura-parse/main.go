package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/openvisura/visura-extract/internal/config"
	"github.com/openvisura/visura-extract/internal/visura"
)

var (
	outputFormat = pflag.String("format", "text", "Output format: text, json")
	maxFileSize  = pflag.Int64("maxfilesize", config.DefaultMaxFileSize, "Maximum PDF file size in bytes")
	help         = pflag.Bool("help", false, "Show help message")
)

func main() {
	pflag.Usage = printHelp
	pflag.Parse()

	if *help {
		printHelp()
		return
	}

	if pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: visura PDF file path required\n\n")
		printHelp()
		os.Exit(1)
	}

	extractor := visura.NewExtractor(*maxFileSize)

	exitCode := 0
	for _, path := range pflag.Args() {
		result, err := extractor.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
			exitCode = 1
			continue
		}

		if err := outputResult(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error outputting results for %s: %v\n", path, err)
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

func printHelp() {
	fmt.Fprintf(os.Stderr, "Visura Parse - Extract property records from visura catastale PDFs\n\n")
	fmt.Fprintf(os.Stderr, "USAGE:\n")
	fmt.Fprintf(os.Stderr, "  visura-parse [OPTIONS] <pdf_file> [<pdf_file>...]\n\n")
	fmt.Fprintf(os.Stderr, "OPTIONS:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
	fmt.Fprintf(os.Stderr, "  visura-parse visura.pdf\n")
	fmt.Fprintf(os.Stderr, "  visura-parse --format json downloads/*.pdf\n")
}

func outputResult(result *visura.ExtractResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

type jsonResult struct {
	Path        string           `json:"path"`
	Pages       int              `json:"pages"`
	Records     []map[string]any `json:"records"`
	Diagnostics []string         `json:"diagnostics,omitempty"`
}

func outputJSON(result *visura.ExtractResult) error {
	out := jsonResult{
		Path:        result.Path,
		Pages:       result.Pages,
		Records:     make([]map[string]any, len(result.Records)),
		Diagnostics: result.Diagnostics,
	}
	for i := range result.Records {
		out.Records[i] = result.Records[i].Fields()
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func outputText(result *visura.ExtractResult) error {
	fmt.Printf("%s: %d page(s), %d property record(s)\n", result.Path, result.Pages, len(result.Records))

	for _, diag := range result.Diagnostics {
		fmt.Printf("  warning: %s\n", diag)
	}

	for i := range result.Records {
		rec := &result.Records[i]
		fmt.Printf("\n[%d]\n", i+1)
		printField("Foglio", rec.Foglio)
		printField("Numero", rec.Numero)
		printField("Sub", rec.Sub)
		printField("Categoria", rec.Categoria)
		printField("Classe", rec.Classe)
		printField("Consistenza", rec.Consistenza)
		printField("Rendita", rec.Rendita)
		printField("Comune", rec.ImmobileComune)
		printField("Indirizzo", rec.IndirizzoRaw)
		if rec.SuperficieTotale != nil {
			fmt.Printf("    Superficie totale: %.2f m²\n", *rec.SuperficieTotale)
		}
		if rec.SuperficieEscluse != nil {
			fmt.Printf("    Superficie escluse aree scoperte: %.2f m²\n", *rec.SuperficieEscluse)
		}
	}

	return nil
}

func printField(label string, value *string) {
	if value != nil && *value != "" {
		fmt.Printf("    %s: %s\n", label, *value)
	}
}
