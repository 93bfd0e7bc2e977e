// gridcut-cli splits images into a grid of cells without a window.
//
// Usage:
//
//	gridcut-cli [flags] <image> [<image>...]
//
// Use "-" to read a single image from stdin; its outputs are named
// clipboard_image_*. The selection, grid, border trimming and PDF page size
// default to the values saved by the GUI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/export"
	"github.com/piwi3910/GridCut/internal/importer"
	"github.com/piwi3910/GridCut/internal/model"
	"github.com/piwi3910/GridCut/internal/project"
)

type options struct {
	grid      model.GridSpec
	selection model.Rect // normalized
	layout    string
	cutBorder bool
	outDir    string
	cells     bool
	pdf       bool
	pagesPNG  bool
	dpi       float64
	pageW     float64
	pageH     float64
	manifest  string
	index     bool
	dxf       bool
}

func usage(message string) {
	if message != "" {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
	fmt.Fprintf(os.Stderr, "usage:\ngridcut-cli [flags] <image> [<image>...]\nFlags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

// parseSelection reads "x,y,w,h" as fractions of the image size.
func parseSelection(s string) (model.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.Rect{}, fmt.Errorf("selection needs 4 values, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.Rect{}, fmt.Errorf("invalid selection value %q: %w", p, err)
		}
		v[i] = f
	}
	r := model.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if r.Empty() {
		return model.Rect{}, fmt.Errorf("selection %q has no area", s)
	}
	return r, nil
}

// parsePage accepts a preset name or "WxH" in centimetres.
func parsePage(s string) (float64, float64, error) {
	if p, ok := model.PagePresetByName(s); ok && p.Name != model.PresetCustom {
		return p.WidthCM, p.HeightCM, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("unknown page size %q (want %s or WxH)", s, strings.Join(model.PagePresetNames()[:4], ", "))
	}
	wf, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page width %q: %w", w, err)
	}
	hf, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page height %q: %w", h, err)
	}
	return model.ClampPageCM(wf), model.ClampPageCM(hf), nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := flag.String("config", project.DefaultConfigPath(), "preferences file supplying defaults")
	rows := flag.Int("rows", 0, "grid rows (default from config)")
	cols := flag.Int("cols", 0, "grid columns (default from config)")
	sel := flag.String("sel", "", "selection x,y,w,h as fractions of the image (default from config)")
	saved := flag.String("saved", "", "name of a layout saved in the GUI to apply")
	layout := flag.String("layout", "", "manifest (.csv/.xlsx) or grid .dxf to take the selection and grid from")
	cutBorder := flag.Bool("cut-border", false, "trim a uniform border from each cell")
	outDir := flag.String("out-dir", "out", "directory to write results to")
	cells := flag.Bool("cells", true, "write one PNG per cell")
	pdf := flag.Bool("pdf", false, "write a PDF with one page per cell")
	pagesPNG := flag.Bool("pages-png", false, "write each PDF page as a PNG image")
	dpi := flag.Float64("dpi", export.DefaultPageDPI, "resolution of -pages-png output")
	page := flag.String("page", "", "PDF page size: A4, Letter, 16:9, 4:3 or WxH in cm (default from config)")
	manifest := flag.String("manifest", "", "write a cell manifest: csv or xlsx")
	index := flag.Bool("index", false, "write a QR-labelled index sheet PDF")
	dxf := flag.Bool("dxf", false, "write the grid outline as DXF")
	flag.Parse()

	if len(flag.Args()) == 0 {
		usage("Expected images")
	}

	cfg, err := project.LoadAppConfig(*cfgPath)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
		cfg = model.DefaultAppConfig()
	}
	if *saved != "" {
		store, err := project.LoadTemplates(project.TemplatePath(*cfgPath))
		if err != nil {
			log.Fatalf("layouts: %v", err)
		}
		t := store.FindByName(*saved)
		if t == nil {
			usage(fmt.Sprintf("no saved layout named %q (have: %s)", *saved, strings.Join(store.Names(), ", ")))
		}
		t.ApplyTo(&cfg)
	}

	opts := options{
		grid:      cfg.Grid(),
		selection: cfg.Selection(),
		layout:    *layout,
		cutBorder: cfg.CutBorder,
		outDir:    *outDir,
		cells:     *cells,
		pdf:       *pdf,
		pagesPNG:  *pagesPNG,
		dpi:       *dpi,
		manifest:  strings.ToLower(*manifest),
		index:     *index,
		dxf:       *dxf,
	}
	opts.pageW, opts.pageH = cfg.PageSizeCM()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			opts.grid.Rows = *rows
		case "cols":
			opts.grid.Cols = *cols
		case "cut-border":
			opts.cutBorder = *cutBorder
		}
	})
	if err := opts.grid.Validate(); err != nil {
		usage(err.Error())
	}
	if *sel != "" {
		if opts.selection, err = parseSelection(*sel); err != nil {
			usage(err.Error())
		}
	}
	if *page != "" {
		if opts.pageW, opts.pageH, err = parsePage(*page); err != nil {
			usage(err.Error())
		}
	}
	if opts.manifest != "" && opts.manifest != "csv" && opts.manifest != "xlsx" {
		usage("--manifest must be csv or xlsx")
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		log.Fatalf("Can't create output directory %s", err)
	}

	failed := 0
	for _, input := range flag.Args() {
		if err := process(input, opts); err != nil {
			log.Printf("%s: %v", input, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func loadInput(input string) (image.Image, string, error) {
	if input == "-" {
		img, err := importer.DecodeImage(os.Stdin)
		return img, "", err
	}
	if !importer.IsSupportedImage(input) {
		return nil, "", fmt.Errorf("unsupported image type %q", filepath.Ext(input))
	}
	img, err := importer.LoadImage(input)
	return img, input, err
}

// applyLayout overrides the selection and grid from a manifest or DXF
// recorded against an image of the given size.
func applyLayout(path string, size model.ImageSize, opts *options) error {
	var result importer.ImportResult
	if strings.EqualFold(filepath.Ext(path), ".dxf") {
		result = importer.ImportGridDXF(path, float64(size.Height))
	} else {
		result = importer.ImportManifest(path)
	}
	for _, w := range result.Warnings {
		log.Printf("layout: %s", w)
	}
	if !result.OK() {
		return fmt.Errorf("layout %s: %s", path, strings.Join(result.Errors, "; "))
	}
	normalized, err := engine.Normalize(model.RectFromImage(result.Layout.Selection), size)
	if err != nil {
		return err
	}
	opts.selection = normalized
	opts.grid = result.Layout.Grid
	return nil
}

func process(input string, opts options) error {
	img, source, err := loadInput(input)
	if err != nil {
		return err
	}
	size := model.SizeOf(img)
	if opts.layout != "" {
		if err := applyLayout(opts.layout, size, &opts); err != nil {
			return err
		}
	}

	session := engine.NewSession()
	session.SetSelectionNormalized(opts.selection)
	if err := session.SetImage(img, size); err != nil {
		return err
	}
	log.Println(session.Info(opts.grid, source))

	blocks, err := session.ExportCells(opts.grid, opts.cutBorder)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return fmt.Errorf("selection lies outside the image")
	}

	base := export.OutputBase(source)
	var rows []model.ManifestRow
	var errs []error
	if opts.cells {
		rows, err = export.SaveCells(opts.outDir, base, blocks)
		if err != nil {
			errs = append(errs, err)
		}
		log.Printf("wrote %d cells to %s", len(rows), opts.outDir)
	} else {
		for _, b := range blocks {
			rows = append(rows, model.NewManifestRow(b, export.CellFileName(base, b.Cell)))
		}
	}

	if opts.pdf || opts.pagesPNG {
		pages, err := engine.ComposePages(engine.BlockImages(blocks), opts.pageW, opts.pageH)
		if err != nil {
			errs = append(errs, fmt.Errorf("pages: %w", err))
		}
		if err == nil && opts.pdf {
			path := filepath.Join(opts.outDir, export.PDFFileName(base))
			if err := export.ExportPDF(path, pages, export.PDFOptions{Title: base, Creator: "gridcut-cli"}); err != nil {
				errs = append(errs, fmt.Errorf("pdf: %w", err))
			} else {
				log.Println(path)
			}
		}
		if err == nil && opts.pagesPNG {
			names, err := export.SavePages(opts.outDir, base, pages, opts.dpi)
			if err != nil {
				errs = append(errs, fmt.Errorf("pages: %w", err))
			}
			log.Printf("wrote %d pages to %s", len(names), opts.outDir)
		}
	}

	switch opts.manifest {
	case "csv":
		if err := export.ExportManifestCSV(filepath.Join(opts.outDir, export.ManifestFileName(base, ".csv")), rows); err != nil {
			errs = append(errs, fmt.Errorf("manifest: %w", err))
		}
	case "xlsx":
		if err := export.ExportManifestXLSX(filepath.Join(opts.outDir, export.ManifestFileName(base, ".xlsx")), rows); err != nil {
			errs = append(errs, fmt.Errorf("manifest: %w", err))
		}
	}

	if opts.index {
		if err := export.ExportIndexSheet(filepath.Join(opts.outDir, export.IndexSheetFileName(base)), source, rows); err != nil {
			errs = append(errs, fmt.Errorf("index sheet: %w", err))
		}
	}

	if opts.dxf {
		sel := model.RectFromImage(engine.PixelBounds(session.Rect(), size))
		path := filepath.Join(opts.outDir, export.GridDXFFileName(base))
		if err := export.ExportGridDXF(path, sel, opts.grid, float64(size.Height)); err != nil {
			errs = append(errs, fmt.Errorf("dxf: %w", err))
		}
	}

	return errors.Join(errs...)
}
