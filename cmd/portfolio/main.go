package main

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/config"
	"vinyl-scene/internal/debug"
	"vinyl-scene/internal/env"
	"vinyl-scene/internal/fonts"
	"vinyl-scene/internal/graphics"
	"vinyl-scene/internal/logger"
	"vinyl-scene/internal/records"
	"vinyl-scene/internal/scene"
)

func main() {
	log := logger.New()
	_ = env.Load(".env")

	prefs, _ := config.Load()

	catalog, err := records.Load(records.CatalogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	scn := scene.New(catalog, log)
	scn.GridVisible = prefs.GridVisible

	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)

	fontLoaded := false
	draw := func() {
		if !fontLoaded {
			fontLoaded = true
			if path, err := fonts.FindFont("Inter"); err == nil {
				font := rl.LoadFontEx(path, 32, nil)
				scn.SetFont(font)
				dbg.SetFont(font)
			}
		}
		scn.Draw()
		dbg.Draw()
	}
	graphics.Run(scn.Update, draw)

	prefs.GridVisible = scn.GridVisible
	if id := scn.SelectedID(); id != "" {
		prefs.LastSelectedID = id
	}
	if err := config.Save(prefs); err != nil {
		log.Log(fmt.Sprintf("main: save prefs: %v", err))
	}
}
