// Command a11yaudit analyzes the logical structure of a PDF and reports an
// accessibility score with actionable issues.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/s4cindia/pdfa11y/geomsource"
	"github.com/s4cindia/pdfa11y/observability"
	"github.com/s4cindia/pdfa11y/report"
	"github.com/s4cindia/pdfa11y/structure"
)

type options struct {
	pdfPath string
	format  string
	pages   []int
	verbose bool
	facets  structure.AnalysisOptions
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "a11yaudit: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "a11yaudit: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: a11yaudit [flags] <pdf>\n")
		flag.PrintDefaults()
	}
	format := flag.String("format", "report", "Output format: report, html, or json")
	pages := flag.String("pages", "", "Comma-separated 1-based page numbers to analyze (default all)")
	verbose := flag.Bool("v", false, "Verbose logging")
	headings := flag.Bool("headings", true, "Analyze heading hierarchy")
	tables := flag.Bool("tables", true, "Analyze tables")
	lists := flag.Bool("lists", true, "Analyze lists")
	links := flag.Bool("links", true, "Analyze link text")
	order := flag.Bool("reading-order", true, "Analyze reading order")
	language := flag.Bool("language", true, "Analyze language declarations")
	flag.Parse()

	if flag.NArg() != 1 {
		return opts, fmt.Errorf("exactly one input PDF is required")
	}
	opts.pdfPath = flag.Arg(0)
	opts.format = *format
	opts.verbose = *verbose
	opts.facets = structure.AnalysisOptions{
		Headings:     *headings,
		Tables:       *tables,
		Lists:        *lists,
		Links:        *links,
		ReadingOrder: *order,
		Language:     *language,
	}
	if *pages != "" {
		for _, part := range strings.Split(*pages, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 {
				return opts, fmt.Errorf("invalid page number %q", part)
			}
			opts.pages = append(opts.pages, n)
		}
		opts.facets.Pages = opts.pages
	}
	switch opts.format {
	case "report", "html", "json":
	default:
		return opts, fmt.Errorf("unknown format %q", opts.format)
	}
	return opts, nil
}

func run(opts options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := observability.SlogLogger{
		L: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}

	src, err := geomsource.Open(opts.pdfPath, log)
	if err != nil {
		return err
	}
	defer src.Close()

	analyzer, err := structure.New(structure.Config{
		Document: src,
		Geometry: src,
		Outline:  src,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	doc, err := analyzer.AnalyzeStructure(context.Background(), opts.facets)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "html":
		out, err := report.HTML(doc)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(report.Markdown(doc))
	}
	return nil
}
