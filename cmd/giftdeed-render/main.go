// Command giftdeed-render turns a saved contract data file into a PDF or an
// HTML preview without starting the server.
//
//	giftdeed-render -font NotoSansJP-Regular.ttf contract-data.json
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmynk/giftdeed/internal/codec"
	"github.com/mmynk/giftdeed/internal/document"
	"github.com/mmynk/giftdeed/internal/form"
	"github.com/mmynk/giftdeed/pkg/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		slog.Error("Render failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("giftdeed-render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", document.PDFFilename, "output file")
	asHTML := fs.Bool("html", false, "write the HTML preview instead of a PDF")
	font := fs.String("font", os.Getenv("FONT_PATH"), "TrueType font with Japanese glyphs")
	level := fs.String("log-level", "info", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one input file, got %d", fs.NArg())
	}

	lvl, err := logging.ParseLevel(*level)
	if err != nil {
		return err
	}
	logging.Setup(stderr, lvl)

	in := fs.Arg(0)
	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	ctl := form.New()
	if err := ctl.Import(b, codec.ForFilename(in)); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	doc := ctl.Render()

	if *asHTML && *out == document.PDFFilename {
		*out = strings.TrimSuffix(document.PDFFilename, filepath.Ext(document.PDFFilename)) + ".html"
	}

	var buf bytes.Buffer
	if *asHTML {
		err = document.WriteHTML(&buf, doc)
	} else {
		err = document.WritePDF(&buf, doc, document.PDFOptions{FontPath: *font})
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	slog.Info("Document written", "input", in, "output", *out, "bytes", buf.Len())
	return nil
}
