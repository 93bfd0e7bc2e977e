// GridCut - Image Grid Splitter
//
// A cross-platform desktop application for marking a region of an image,
// splitting it into a grid of cells, trimming uniform borders and
// exporting the cells as image files or PDF pages.
//
// Build:
//   go build -o gridcut ./cmd/gridcut
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o gridcut.exe ./cmd/gridcut
//   GOOS=darwin  GOARCH=amd64 go build -o gridcut-darwin ./cmd/gridcut
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"flag"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/GridCut/internal/project"
	"github.com/piwi3910/GridCut/internal/ui"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := flag.String("config", "", "path to the preferences file (default ~/.gridcut/config.json)")
	flag.Parse()

	if *cfgPath == "" {
		*cfgPath = project.DefaultConfigPath()
	}

	application := app.NewWithID("com.piwi3910.gridcut")
	application.Settings().SetTheme(ui.NewGridCutTheme())
	window := application.NewWindow("GridCut - Image Grid Splitter")

	appUI := ui.NewApp(application, window, *cfgPath)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	appUI.SetupShortcuts()

	cfg := appUI.Config()
	window.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	window.CenterOnScreen()

	if path := flag.Arg(0); path != "" {
		appUI.OpenPath(path)
	}

	window.ShowAndRun()
}
