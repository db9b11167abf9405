package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"github.com/TanaroSch/snapask/internal/app"
	"github.com/TanaroSch/snapask/internal/capture"
	"github.com/TanaroSch/snapask/internal/clipboard"
	"github.com/TanaroSch/snapask/internal/config"
	"github.com/TanaroSch/snapask/internal/eventloop"
	"github.com/TanaroSch/snapask/internal/hotkey"
	"github.com/TanaroSch/snapask/internal/logging"
	"github.com/TanaroSch/snapask/internal/overlay"
	"github.com/TanaroSch/snapask/internal/resources"
	"github.com/TanaroSch/snapask/internal/shell"
	"github.com/TanaroSch/snapask/internal/ui"
)

// Set with -ldflags "-X main.version=..." at release time.
var version = "dev"

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	dataDir, err := config.AppDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}

	rt, err := config.LoadRuntime(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: rt.Log.Level, File: rt.Log.File})
	logger.Info().Str("version", version).Str("settings", rt.SettingsPath).Msg(config.AppName + " starting")

	store := config.NewFileStore(rt.SettingsPath, logger)

	backend, err := hotkey.SelectBackend(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Shortcuts will be inactive")
	}
	registry := hotkey.NewRegistry(backend, store, logger)

	captures := capture.NewService(shell.Exec{Log: logger}, clipboard.System{}, capture.Options{
		ScreenshotTool: rt.Capture.ScreenshotTool,
		AutomationTool: rt.Capture.AutomationTool,
		PollInterval:   rt.Capture.PollInterval,
		PollAttempts:   rt.Capture.PollAttempts,
		TempDir:        rt.Capture.TempDir,
	}, logger)

	window := &ui.WailsWindow{}
	controller := overlay.NewController(window.Factory(), overlay.ScreenDisplays{}, registry, rt.Overlay.FocusDelay, logger)

	application := app.New(app.Deps{
		Loop:        eventloop.New(64, logger),
		Shortcuts:   registry,
		Capturer:    captures,
		Overlay:     controller,
		Cursor:      overlay.RobotgoCursor{},
		Preferences: store,
		Notifier:    ui.NewNotificationManager(rt.Notifications, "", logger),
		Log:         logger,
	})
	settings := application.Settings()

	icon, err := resources.GetIcon()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load embedded icon")
	}
	tray := ui.NewSystrayManager(version, icon, settings, filepath.Dir(store.Path()), window.Quit, logger)
	tray.Register()

	err = wails.Run(&options.App{
		Title:            config.AppName,
		Width:            rt.Overlay.Width,
		Height:           rt.Overlay.Height,
		StartHidden:      true,
		AlwaysOnTop:      true,
		Frameless:        true,
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: func(ctx context.Context) {
			window.Attach(ctx)
			application.Start(ctx)
		},
		OnBeforeClose: func(ctx context.Context) bool {
			return window.BeforeClose(application.OverlayClosed)
		},
		OnShutdown: func(ctx context.Context) {
			application.Shutdown()
			tray.Quit()
		},
		Bind: []interface{}{
			settings,
		},
		Mac: &mac.Options{
			TitleBar:             mac.TitleBarHiddenInset(),
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Wails run failed")
	}
}
