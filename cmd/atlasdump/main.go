// Command atlasdump rasterizes a font into glyph atlas pages and writes
// each page as a PNG image with a JSON glyph table.
//
// Usage:
//
//	atlasdump [-font file.ttf] [-sizes 12,16,24] [-out dir] [-chars extra] [-growth once|fit] [-v]
//
// Without -font the embedded Go Regular font is used.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/fontatlas"
)

func main() {
	var (
		fontPath = flag.String("font", "", "TTF/OTF font file (default: Go Regular)")
		sizes    = flag.String("sizes", "12,16,24", "comma-separated pixel sizes")
		outDir   = flag.String("out", ".", "output directory")
		chars    = flag.String("chars", "", "extra characters to rasterize")
		growth   = flag.String("growth", "once", "growth policy: once or fit")
		initial  = flag.Int("initial", 128, "initial page size")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		fontatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	opts := options{
		fontPath: *fontPath,
		outDir:   *outDir,
		chars:    *chars,
		initial:  *initial,
	}
	var err error
	if opts.sizes, err = parseSizes(*sizes); err != nil {
		log.Fatalf("Invalid -sizes: %v", err)
	}
	if opts.growth, err = parseGrowth(*growth); err != nil {
		log.Fatalf("Invalid -growth: %v", err)
	}

	report, err := run(opts)
	if err != nil {
		log.Fatalf("atlasdump: %v", err)
	}
	report.print(os.Stdout)
}
