package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/importer"
	"github.com/piwi3910/GridCut/internal/model"
	"github.com/piwi3910/GridCut/internal/project"
	"github.com/piwi3910/GridCut/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	cfgPath string
	config  model.AppConfig

	session     *engine.Session
	history     *History
	layouts     model.TemplateStore
	layoutsPath string
	source      string     // path of the loaded image, empty for pasted data
	last        model.Rect // normalized selection before the current gesture

	// UI references for dynamic updates
	view         *widgets.SelectionView
	rowsEntry    *widget.Entry
	colsEntry    *widget.Entry
	cutBorder    *widget.Check
	previewCheck *widget.Check
	presetSelect *widget.Select
	widthEntry   *widget.Entry
	heightEntry  *widget.Entry
	status       *widget.Label
}

// NewApp creates the application state, loading preferences from cfgPath.
func NewApp(application fyne.App, window fyne.Window, cfgPath string) *App {
	cfg, err := project.LoadAppConfig(cfgPath)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
		cfg = model.DefaultAppConfig()
	}

	a := &App{
		app:         application,
		window:      window,
		cfgPath:     cfgPath,
		config:      cfg,
		session:     engine.NewSession(),
		history:     NewHistory(),
		layoutsPath: project.TemplatePath(cfgPath),
	}
	if a.layouts, err = project.LoadTemplates(a.layoutsPath); err != nil {
		log.Printf("layouts: %v", err)
		a.layouts = model.NewTemplateStore()
	}
	a.session.SetSelectionNormalized(cfg.Selection())
	a.last = a.session.SelectionNormalized()
	a.session.SetOnCommit(a.onCommit)
	return a
}

// Config returns the current preferences.
func (a *App) Config() model.AppConfig { return a.config }

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", a.openImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Split to Images...", a.exportCells),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItem("Export Pages as PNG...", a.exportPagePNGs),
		fyne.NewMenuItem("Export Manifest...", a.exportManifest),
		fyne.NewMenuItem("Export Index Sheet...", a.exportIndexSheet),
		fyne.NewMenuItem("Export Grid Outline (DXF)...", a.exportDXF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Apply Layout from Manifest...", a.importManifestLayout),
		fyne.NewMenuItem("Apply Layout from DXF...", a.importDXFLayout),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Settings...", a.showImportExportDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset Selection", func() {
			a.applySelection(model.DefaultNormalizedSelection(), "Reset Selection")
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset View", a.resetView),
		fyne.NewMenuItem("Zoom In", func() { a.zoomBy(model.ZoomFactor) }),
		fyne.NewMenuItem("Zoom Out", func() { a.zoomBy(1 / model.ZoomFactor) }),
	)

	layoutMenu := fyne.NewMenu("Layouts",
		fyne.NewMenuItem("Save Current Layout...", a.showSaveLayoutDialog),
		fyne.NewMenuItem("Saved Layouts...", a.showLayoutsDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, layoutMenu, helpMenu))
}

// SetupShortcuts registers keyboard shortcuts and drag-and-drop.
func (a *App) SetupShortcuts() {
	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.Key0, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.resetView() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.openImage() })

	a.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, u := range uris {
			if importer.IsSupportedImage(u.Path()) {
				a.loadImage(u.Path())
				return
			}
		}
		dialog.ShowInformation("Unsupported file",
			"Drop an image file ("+strings.Join(importer.SupportedExtensions, ", ")+").", a.window)
	})

	a.window.SetCloseIntercept(func() {
		a.saveConfig()
		a.window.Close()
	})
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About GridCut",
		"GridCut - Image Grid Splitter\n\n"+
			"Mark a region of an image, split it into a grid,\n"+
			"trim uniform borders and export the cells as images or PDF pages.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.view = widgets.NewSelectionView(a.session)
	a.view.OnChanged = a.refreshStatus
	a.status = widget.NewLabel("Open an image to begin.")

	return container.NewBorder(
		a.buildToolbar(),
		a.status,
		nil, nil,
		a.view,
	)
}

// ─── Toolbar ───────────────────────────────────────────────

func (a *App) buildToolbar() fyne.CanvasObject {
	a.rowsEntry = widget.NewEntry()
	a.rowsEntry.SetText(strconv.Itoa(a.config.GridRows))
	a.rowsEntry.OnChanged = func(string) { a.onGridChanged() }
	a.colsEntry = widget.NewEntry()
	a.colsEntry.SetText(strconv.Itoa(a.config.GridCols))
	a.colsEntry.OnChanged = func(string) { a.onGridChanged() }

	a.cutBorder = widget.NewCheck("Cut border", func(on bool) {
		a.config.CutBorder = on
		a.refreshView()
	})
	a.cutBorder.SetChecked(a.config.CutBorder)

	a.previewCheck = widget.NewCheck("Preview", func(on bool) {
		a.config.PreviewMode = on
		a.refreshView()
	})
	a.previewCheck.SetChecked(a.config.PreviewMode)

	a.widthEntry = widget.NewEntry()
	a.heightEntry = widget.NewEntry()
	a.widthEntry.OnChanged = func(string) { a.onPageSizeChanged() }
	a.heightEntry.OnChanged = func(string) { a.onPageSizeChanged() }
	a.presetSelect = widget.NewSelect(model.PagePresetNames(), a.onPresetChanged)
	a.presetSelect.SetSelected(a.config.PDFPreset)

	buttons := container.NewHBox(
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open image (Ctrl+O)", a.openImage),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Split selection into image files", a.exportCells),
		newIconButtonWithTooltip(theme.FileApplicationIcon(), "Export cells as PDF pages", a.exportPDF),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ZoomFitIcon(), "Reset view (Ctrl+0)", a.resetView),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo selection change (Ctrl+Z)", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo selection change (Ctrl+Y)", a.redo),
	)

	grid := container.NewHBox(
		widget.NewLabel("Rows"), sizedEntry(a.rowsEntry),
		widget.NewLabel("Cols"), sizedEntry(a.colsEntry),
		a.cutBorder, a.previewCheck,
	)

	page := container.NewHBox(
		widget.NewLabel("PDF page"), a.presetSelect,
		sizedEntry(a.widthEntry), widget.NewLabel("x"), sizedEntry(a.heightEntry), widget.NewLabel("cm"),
	)

	return container.NewVBox(container.NewHBox(buttons, widget.NewSeparator(), grid), page, widget.NewSeparator())
}

func sizedEntry(e *widget.Entry) fyne.CanvasObject {
	return container.NewGridWrap(fyne.NewSize(64, e.MinSize().Height), e)
}

// grid parses the rows/cols entries, falling back to the stored values.
func (a *App) grid() model.GridSpec {
	g := a.config.Grid()
	if a.rowsEntry == nil {
		return g
	}
	if v, err := strconv.Atoi(strings.TrimSpace(a.rowsEntry.Text)); err == nil && v >= 1 {
		g.Rows = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(a.colsEntry.Text)); err == nil && v >= 1 {
		g.Cols = v
	}
	return g
}

func (a *App) onGridChanged() {
	g := a.grid()
	if g == a.config.Grid() {
		return
	}
	a.history.Push(MakeSnapshot(a.session.SelectionNormalized(), a.config.Grid(), "Change grid"))
	a.config.GridRows = g.Rows
	a.config.GridCols = g.Cols
	a.refreshView()
}

func (a *App) onPresetChanged(name string) {
	a.config.PDFPreset = name
	custom := name == model.PresetCustom
	if p, ok := model.PagePresetByName(name); ok && !custom {
		a.config.PDFWidthCM = p.WidthCM
		a.config.PDFHeightCM = p.HeightCM
	}
	a.widthEntry.SetText(strconv.FormatFloat(a.config.PDFWidthCM, 'f', -1, 64))
	a.heightEntry.SetText(strconv.FormatFloat(a.config.PDFHeightCM, 'f', -1, 64))
	if custom {
		a.widthEntry.Enable()
		a.heightEntry.Enable()
	} else {
		a.widthEntry.Disable()
		a.heightEntry.Disable()
	}
}

func (a *App) onPageSizeChanged() {
	if a.config.PDFPreset != model.PresetCustom {
		return
	}
	if w, err := strconv.ParseFloat(strings.TrimSpace(a.widthEntry.Text), 64); err == nil {
		a.config.PDFWidthCM = model.ClampPageCM(w)
	}
	if h, err := strconv.ParseFloat(strings.TrimSpace(a.heightEntry.Text), 64); err == nil {
		a.config.PDFHeightCM = model.ClampPageCM(h)
	}
}

// ─── Image and selection ───────────────────────────────────

func (a *App) openImage() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.loadImage(reader.URI().Path())
	}, a.window)
}

// OpenPath loads an image given on the command line.
func (a *App) OpenPath(path string) { a.loadImage(path) }

// loadImage opens path and shows it, keeping the normalized selection and
// reapplying the stored zoom.
func (a *App) loadImage(path string) {
	img, err := importer.LoadImage(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if err := a.session.SetImage(img, a.view.Viewport()); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.session.SetZoom(a.config.ImageScale)
	a.source = path
	a.last = a.session.SelectionNormalized()
	a.history.Clear()
	a.config.AddRecentImage(path)
	a.window.SetTitle("GridCut - " + path)
	a.refreshView()
}

func (a *App) onCommit(normalized model.Rect) {
	if normalized == a.last {
		return
	}
	a.history.Push(MakeSnapshot(a.last, a.config.Grid(), "Change selection"))
	a.last = normalized
	a.config.SetSelection(normalized)
}

// applySelection replaces the selection as an undoable step.
func (a *App) applySelection(normalized model.Rect, label string) {
	a.history.Push(MakeSnapshot(a.session.SelectionNormalized(), a.config.Grid(), label))
	a.session.SetSelectionNormalized(normalized)
	a.last = a.session.SelectionNormalized()
	a.config.SetSelection(a.last)
	a.refreshView()
}

func (a *App) current(label string) Snapshot {
	return MakeSnapshot(a.session.SelectionNormalized(), a.config.Grid(), label)
}

func (a *App) restore(s Snapshot) {
	a.session.SetSelectionNormalized(s.Selection)
	a.last = a.session.SelectionNormalized()
	a.config.SetSelection(a.last)
	a.config.GridRows = s.Grid.Rows
	a.config.GridCols = s.Grid.Cols
	// Entry callbacks compare against config, so this does not push history.
	a.rowsEntry.SetText(strconv.Itoa(s.Grid.Rows))
	a.colsEntry.SetText(strconv.Itoa(s.Grid.Cols))
	a.refreshView()
}

func (a *App) undo() {
	if s, ok := a.history.Undo(a.current("Redo")); ok {
		a.restore(s)
	}
}

func (a *App) redo() {
	if s, ok := a.history.Redo(a.current("Undo")); ok {
		a.restore(s)
	}
}

func (a *App) resetView() {
	a.session.ResetView()
	a.refreshView()
}

func (a *App) zoomBy(factor float64) {
	a.session.SetZoom(a.session.Zoom() * factor)
	a.refreshView()
}

// ─── Refresh and persistence ───────────────────────────────

func (a *App) refreshView() {
	if a.view == nil {
		return
	}
	a.view.SetGrid(a.grid())
	a.view.SetPreview(a.config.PreviewMode, a.config.CutBorder)
	a.refreshStatus()
}

func (a *App) refreshStatus() {
	if a.status == nil {
		return
	}
	if !a.session.HasImage() {
		a.status.SetText("Open an image to begin.")
		return
	}
	a.status.SetText(fmt.Sprintf("%s | zoom %.0f%%", a.session.Info(a.grid(), a.source), a.session.Zoom()*100))
}

func (a *App) saveConfig() {
	size := a.window.Canvas().Size()
	a.config.WindowWidth = int(size.Width)
	a.config.WindowHeight = int(size.Height)
	a.config.SetSelection(a.session.SelectionNormalized())
	if a.session.HasImage() {
		a.config.ImageScale = a.session.Zoom()
	}
	a.config.Normalize()
	if err := project.SaveAppConfig(a.cfgPath, a.config); err != nil {
		log.Printf("config: %v", err)
	}
}
