package main

import (
	"embed"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"WindowHub/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	logging.InitDefault()
	defer logging.Sync()

	app := NewApp()

	err := wails.Run(&options.App{
		Title:  "WindowHub",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:     app.startup,
		OnShutdown:    app.shutdown,
		OnBeforeClose: app.beforeClose,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logging.L().Fatal("wails run failed", zap.Error(err))
	}
}
