package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin       = 14.0 // mm, about 40pt
	titleSize       = 16.0 // pt
	textSize        = 10.5 // pt
	lineHeight      = 5.6  // mm, 1.5 × textSize
	sealRadius      = 8.8  // mm, 25pt
	signatureIndent = 0.3  // fraction of the text width
	coreFont        = "Helvetica"
	embeddedFont    = "NotoSansJP"
)

// PDFOptions controls PDF output.
type PDFOptions struct {
	// FontPath is a TrueType font with Japanese glyphs, e.g. NotoSansJP-Regular.ttf.
	// Without it the core Helvetica face is used and Japanese text is not legible.
	FontPath string
}

// WritePDF writes doc to w as a single-size paginated PDF.
func WritePDF(w io.Writer, doc Document, opts PDFOptions) error {
	size := doc.PageSize
	if size.Width == 0 || size.Height == 0 {
		size = A4
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("giftdeed", true)

	family := coreFont
	if opts.FontPath != "" {
		font, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return fmt.Errorf("failed to read font: %w", err)
		}
		pdf.AddUTF8FontFromBytes(embeddedFont, "", font)
		pdf.AddUTF8FontFromBytes(embeddedFont, "B", font)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("failed to load font %s: %w", opts.FontPath, err)
		}
		family = embeddedFont
	} else {
		slog.Warn("No PDF font configured, Japanese text will not render", "fallback", coreFont)
	}

	pw := &pdfWriter{pdf: pdf, family: family}
	pw.write(doc)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	family string
}

func (p *pdfWriter) textWidth() float64 {
	w, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return w - left - right
}

// reserve starts a new page unless h millimetres fit above the bottom margin.
// Drawings placed at a saved y then stay on the page of the text beside them.
func (p *pdfWriter) reserve(h float64) {
	_, pageHeight := p.pdf.GetPageSize()
	if p.pdf.GetY()+h > pageHeight-pdfMargin {
		p.pdf.AddPage()
	}
}

func (p *pdfWriter) write(doc Document) {
	pdf := p.pdf
	pdf.AddPage()
	width := p.textWidth()

	pdf.SetFont(p.family, "", titleSize)
	pdf.CellFormat(width, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	pdf.SetFont(p.family, "", textSize)
	pdf.MultiCell(width, lineHeight, doc.Intro, "", "L", false)
	pdf.Ln(lineHeight)

	for _, a := range doc.Articles {
		p.article(a, width)
	}

	pdf.Ln(lineHeight * 2)
	pdf.MultiCell(width, lineHeight, doc.Closing, "", "L", false)
	pdf.Ln(lineHeight / 2)
	pdf.MultiCell(width, lineHeight, doc.Date, "", "L", false)

	for _, s := range doc.Signatures {
		p.signature(s, width)
	}
}

func (p *pdfWriter) article(a Article, width float64) {
	pdf := p.pdf
	pdf.SetFont(p.family, "B", textSize)
	pdf.CellFormat(width, lineHeight, a.Heading, "", 1, "L", false, 0, "")
	pdf.SetFont(p.family, "", textSize)
	pdf.MultiCell(width, lineHeight, a.Body, "", "L", false)

	for _, it := range a.Items {
		pdf.Ln(1.5)
		pdf.SetFont(p.family, "B", textSize)
		pdf.CellFormat(width, lineHeight, it.Label, "LTR", 1, "L", false, 0, "")
		pdf.SetFont(p.family, "", textSize)
		pdf.MultiCell(width, lineHeight, it.Content, "LBR", "L", false)
	}
	pdf.Ln(lineHeight)
}

func (p *pdfWriter) signature(s Signature, width float64) {
	pdf := p.pdf
	left, _, _, _ := pdf.GetMargins()
	indent := width * signatureIndent
	boxWidth := width - indent

	pdf.Ln(lineHeight * 2)
	pdf.SetX(left + indent)
	pdf.SetFont(p.family, "B", textSize)
	pdf.CellFormat(boxWidth, lineHeight, s.Heading, "", 1, "L", false, 0, "")

	pdf.SetFont(p.family, "", textSize)
	pdf.SetX(left + indent)
	pdf.MultiCell(boxWidth, lineHeight, s.AddressLine(), "", "L", false)

	p.reserve(sealRadius * 2)
	pdf.SetX(left + indent)
	y := pdf.GetY()
	pdf.CellFormat(boxWidth-sealRadius*2, lineHeight, s.NameLine(), "", 0, "L", false, 0, "")
	if s.Seal {
		pdf.Circle(left+width-sealRadius, y+lineHeight/2, sealRadius, "D")
	}
	pdf.SetY(y + sealRadius*2)
}
