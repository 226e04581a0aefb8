package app

import (
	"io"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"

	"dockhud/internal/assets"
	"dockhud/internal/bridge"
	"dockhud/internal/config"
	"dockhud/internal/hotkeys"
	"dockhud/internal/hotkeys/globalhook"
	"dockhud/internal/logging"
	"dockhud/internal/modules"
	"dockhud/internal/overlay"
	"dockhud/internal/platform"
	"dockhud/internal/ui"
	"dockhud/internal/widgets"
)

// Options are the command line overrides.
type Options struct {
	ConfigPath string
	ModulesDir string
	Debug      bool
	NoTray     bool
}

// App is the main application
type App struct {
	fyneApp fyne.App
	config  *config.Config

	bus      *bridge.Bus
	listener *hotkeys.Listener
	manager  *overlay.Manager
	loader   *modules.Loader
	watcher  *modules.Watcher

	// UI components
	tray    *ui.TrayManager
	control *ui.ControlWindow

	logCloser    io.Closer
	shutdownOnce sync.Once
}

// Run starts the application and blocks until it quits.
func Run(opts Options) error {
	a := &App{}

	cfg, cfgErr := LoadConfig(opts)
	a.config = cfg

	closer, err := logging.Setup(logging.Options{Debug: opts.Debug, File: cfg.LogFile})
	if err != nil {
		return err
	}
	a.logCloser = closer
	if cfgErr != nil {
		slog.Warn("config not loaded, using defaults", "error", cfgErr)
	}
	slog.Info("starting dockhud", "modules", cfg.ModulesDir)

	// Initialize Fyne app
	a.fyneApp = app.NewWithID("com.dockhud.app")
	a.fyneApp.Settings().SetTheme(theme.DarkTheme())
	a.fyneApp.SetIcon(assets.AppIcon())

	a.bus = bridge.New(bridge.FyneDispatcher{})

	// The listener runs before any window exists.
	a.listener = hotkeys.NewListener(a.bus, globalhook.New, hotkeys.Options{
		WatchdogInterval: cfg.WatchdogInterval(),
		StuckKeyTimeout:  cfg.StuckKeyTimeout(),
		JoinTimeout:      cfg.HookJoinTimeout(),
	})
	if err := a.listener.Start(); err != nil {
		slog.Warn("global shortcuts unavailable for now", "error", err)
	}

	a.initOverlays()
	a.initUI(opts.NoTray || !cfg.TrayEnabled)
	a.initWatcher()

	a.fyneApp.Lifecycle().SetOnStopped(a.shutdown)

	// Run the app (blocking)
	a.fyneApp.Run()

	// Cleanup
	a.shutdown()
	return nil
}

// LoadConfig loads the config file and applies the command line overrides.
// The returned config is usable even when the error is not nil.
func LoadConfig(opts Options) (*config.Config, error) {
	if opts.ConfigPath != "" {
		config.SetPath(opts.ConfigPath)
	}
	cfg, err := config.Load()
	if opts.ModulesDir != "" {
		cfg.ModulesDir = opts.ModulesDir
	}
	return cfg, err
}

// initOverlays builds the overlay manager and opens every saved overlay.
func (a *App) initOverlays() {
	registry := modules.NewRegistry()
	widgets.Register(registry)
	a.loader = modules.NewLoader(a.config.ModulesDir, registry)

	a.manager = overlay.NewManager(overlay.Options{
		Store:           overlay.NewStore(a.config.ModulesDir),
		Surfaces:        ui.NewSurfaces(a.fyneApp, platform.New()),
		Loader:          a.loader,
		Bus:             a.bus,
		Dispatcher:      bridge.FyneDispatcher{},
		SaveDebounce:    a.config.SaveDebounce(),
		ToggleShowEvent: hotkeys.EventName(hotkeys.ParseChord(a.config.ToggleOverlaysChord)),
		ToggleEditEvent: hotkeys.EventName(hotkeys.ParseChord(a.config.ToggleEditChord)),
	})

	files, err := a.manager.LoadAllOverlays()
	if err != nil {
		slog.Warn("overlays not loaded", "error", err)
	}
	customs, err := a.manager.LoadCustomOverlays()
	if err != nil {
		slog.Warn("custom overlays not loaded", "error", err)
	}
	slog.Info("overlays loaded", "file", files, "custom", customs)
}

// initUI initializes the tray and the control window
func (a *App) initUI(noTray bool) {
	a.control = ui.NewControlWindow(a.fyneApp, a.manager, a.loader)

	a.tray = ui.NewTrayManager(a.fyneApp)
	a.tray.SetCallbacks(
		a.manager.ToggleGlobalShow,
		a.manager.ToggleEditMode,
		a.control.Show,
		a.quit,
	)

	trayReady := false
	if !noTray {
		if err := a.tray.Setup(); err != nil {
			slog.Warn("system tray setup failed", "error", err)
		} else {
			trayReady = true
		}
	}

	a.manager.OnChange(func() {
		a.tray.Refresh(a.manager.GlobalShow(), a.manager.EditMode())
		a.control.Refresh()
	})

	// Without a tray the control window is the only way to quit.
	if !trayReady {
		a.control.Show()
	}
}

// initWatcher loads overlay definitions dropped into modules while running.
func (a *App) initWatcher() {
	if !a.config.WatchModules {
		return
	}
	a.bus.Subscribe(modules.OverlayChangedEvent, func(args ...any) {
		if len(args) != 2 {
			return
		}
		module, _ := args[0].(string)
		file, _ := args[1].(string)
		if err := a.manager.LoadOverlayFile(module, file); err != nil {
			slog.Warn("new overlay not loaded", "module", module, "file", file, "error", err)
		}
	})

	a.watcher = modules.NewWatcher(a.config.ModulesDir, a.bus, 0)
	if err := a.watcher.Start(); err != nil {
		slog.Warn("module watcher not started", "error", err)
		a.watcher = nil
	}
}

func (a *App) quit() {
	a.shutdown()
	a.fyneApp.Quit()
}

// shutdown stops the watcher, then saves and closes overlays, then stops
// the listener.
func (a *App) shutdown() {
	a.shutdownOnce.Do(func() {
		if a.watcher != nil {
			a.watcher.Stop()
		}
		a.manager.Stop()
		a.listener.Stop()
		slog.Info("dockhud stopped")
		if a.logCloser != nil {
			_ = a.logCloser.Close()
		}
	})
}
