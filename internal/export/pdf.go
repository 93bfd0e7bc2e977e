// Package export writes split results to disk: cell images, composed PDF
// pages, index sheets, manifests and grid outlines.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/GridCut/internal/model"
)

// PDFOptions controls document metadata.
type PDFOptions struct {
	Title   string
	Creator string
}

// newPageDocument creates a document measured in centimetres whose default
// page matches the first composed page.
func newPageDocument(first model.Page, opts PDFOptions) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "cm",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	return pdf
}

// renderPages draws every composed page into a new document.
func renderPages(pages []model.Page, opts PDFOptions) (*fpdf.Fpdf, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to export")
	}
	pdf := newPageDocument(pages[0], opts)
	for i, p := range pages {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("page %d: %w", i+1, model.ErrInvalidPageSize)
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.Width, Ht: p.Height})
		if err := renderPage(pdf, p); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	return pdf, pdf.Error()
}

// renderPage fills the page with its background color and places the cell
// image at its contain-fit position.
func renderPage(pdf *fpdf.Fpdf, p model.Page) error {
	bg := p.Background
	pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	pdf.Rect(0, 0, p.Width, p.Height, "F")

	if !p.HasImage() {
		return nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, p.Image, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode cell image: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(p.ImageRef, opts, &buf)
	pdf.ImageOptions(p.ImageRef, p.Placement.X, p.Placement.Y, p.Placement.Width, p.Placement.Height, false, opts, 0, "")
	return pdf.Error()
}

// ExportPDF writes one PDF page per composed page to path. Page dimensions
// are in centimetres.
func ExportPDF(path string, pages []model.Page, opts PDFOptions) error {
	pdf, err := renderPages(pages, opts)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF is ExportPDF for an arbitrary writer.
func WritePDF(w io.Writer, pages []model.Page, opts PDFOptions) error {
	pdf, err := renderPages(pages, opts)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}
