// Package app is the desktop shell: window, menu, file dialog and the
// annotation surface, wired to a measuring session.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/scaleruler/internal/config"
	"github.com/philipparndt/scaleruler/internal/session"
	"github.com/philipparndt/scaleruler/pkg/imageio"
	"github.com/philipparndt/scaleruler/pkg/settings"
	"github.com/philipparndt/scaleruler/pkg/watcher"
)

// AppID identifies the application to the fyne preferences store
const AppID = "com.github.philipparndt.scaleruler"

const (
	windowTitle = "ScaleRuler"

	// restoreRetry is the delay between attempts to restore measurements
	// while the surface has not been laid out yet
	restoreRetry = 50 * time.Millisecond

	reloadDebounce = 300 * time.Millisecond
)

// App holds the window and everything shown in it
type App struct {
	window fyne.Window
	cfg    *config.Config
	logger *slog.Logger

	settings *settings.Settings
	session  *session.Session

	surface    *Surface
	totalLabel *widget.Label
	openButton *widget.Button

	watcher *watcher.FileWatcher
}

// New builds the main window. Nothing is shown until Run.
func New(fyneApp fyne.App, cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &App{
		window: fyneApp.NewWindow(windowTitle),
		cfg:    cfg,
		logger: logger,
	}

	store := settings.NewPropertiesStore(cfg.SettingsFile)
	a.settings = settings.New(store, logger.With("component", "settings"))
	a.session = session.New(a.settings,
		session.WithLogger(logger.With("component", "session")),
		session.WithPrompt(&calibrationPrompt{window: a.window}),
		session.WithViewConfig(session.ViewConfig{
			MinScale:      cfg.MinZoom,
			MaxScale:      cfg.MaxZoom,
			ZoomInFactor:  cfg.ZoomInFactor,
			ZoomOutFactor: cfg.ZoomOutFactor,
		}),
	)

	if cfg.WatchImage {
		fw, err := watcher.NewFileWatcher(reloadDebounce, logger.With("component", "watcher"))
		if err != nil {
			logger.Warn("image watching disabled", "error", err)
		} else {
			fw.Start()
			a.watcher = fw
		}
	}

	a.setupUI()
	return a
}

// Session returns the measuring session
func (a *App) Session() *session.Session {
	return a.session
}

// Window returns the main window
func (a *App) Window() fyne.Window {
	return a.window
}

func (a *App) setupUI() {
	a.surface = NewSurface(a.session)

	a.totalLabel = widget.NewLabel(a.session.TotalText())
	a.totalLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.openButton = widget.NewButton("Open Image…", a.showOpenDialog)

	a.session.OnChange(a.refresh)

	openShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	openItem := fyne.NewMenuItem("Open…", a.showOpenDialog)
	openItem.Shortcut = openShortcut
	a.window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", openItem)))
	a.window.Canvas().AddShortcut(openShortcut, func(fyne.Shortcut) {
		a.showOpenDialog()
	})

	content := container.NewBorder(
		nil,
		container.NewHBox(a.totalLabel),
		nil, nil,
		container.NewStack(a.surface.Container(), container.NewCenter(a.openButton)),
	)
	a.window.SetContent(content)
	a.window.Resize(fyne.NewSize(a.cfg.WindowWidth, a.cfg.WindowHeight))
	a.window.SetOnClosed(a.close)
}

// refresh redraws everything derived from the session
func (a *App) refresh() {
	a.surface.Refresh()
	a.totalLabel.SetText(a.session.TotalText())
}

// OpenImage decodes the image and starts a new session for it. On failure
// the current session is left untouched and false is returned.
func (a *App) OpenImage(path string) bool {
	img, err := imageio.Load(path)
	if err != nil {
		a.logger.Error("failed to open image", "path", path, "error", err)
		return false
	}

	a.surface.SetImage(img)
	a.session.Open(path)
	a.openButton.Hide()
	a.window.SetTitle(fmt.Sprintf("%s - %s", windowTitle, filepath.Base(path)))

	a.restoreWhenSized()
	a.watchImage(path)
	return true
}

// restoreWhenSized restores the stored measurements, retrying until the
// surface has been laid out
func (a *App) restoreWhenSized() {
	if a.session.TryRestore() {
		a.refresh()
		return
	}
	time.AfterFunc(restoreRetry, func() {
		fyne.Do(a.restoreWhenSized)
	})
}

// watchImage reloads the pixels when the image changes on disk. The
// session keeps its calibration and measurements.
func (a *App) watchImage(path string) {
	if a.watcher == nil {
		return
	}
	err := a.watcher.Watch(path, func(string) {
		fyne.Do(func() {
			a.reloadImage(path)
		})
	})
	if err != nil {
		a.logger.Warn("failed to watch image", "path", path, "error", err)
	}
}

func (a *App) reloadImage(path string) {
	if current, ok := a.session.ImagePath(); !ok || current != path {
		return
	}
	img, err := imageio.Load(path)
	if err != nil {
		a.logger.Warn("failed to reload image", "path", path, "error", err)
		return
	}
	a.logger.Info("image reloaded", "path", path)
	a.surface.SetImage(img)
}

// openLastImageIfAny reopens the image of the previous run if it still
// exists, can be read and has an image extension
func (a *App) openLastImageIfAny() {
	path, ok := a.settings.LastPath()
	if !ok {
		return
	}
	if !imageio.IsSupported(path) {
		a.logger.Info("last image not reopened", "path", path, "error", "unsupported file type")
		return
	}
	if err := checkReadable(path); err != nil {
		a.logger.Info("last image not reopened", "path", path, "error", err)
		return
	}
	a.OpenImage(path)
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errors.New("not a regular file")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// showOpenDialog lets the user pick an image. The choice is remembered
// before it is decoded.
func (a *App) showOpenDialog() {
	dlg := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		a.settings.SetLastPath(path)
		if !a.OpenImage(path) {
			dialog.ShowError(fmt.Errorf("failed to load image %s", filepath.Base(path)), a.window)
		}
	}, a.window)
	dlg.SetFilter(storage.NewExtensionFileFilter(imageio.Extensions))

	if last, ok := a.settings.LastPath(); ok {
		if dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(last))); err == nil {
			dlg.SetLocation(dir)
		}
	}
	dlg.Show()
}

func (a *App) close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("failed to close watcher", "error", err)
		}
	}
}

// Run shows the main window and blocks until it is closed. A non-empty
// initialPath is opened instead of the last image.
func Run(cfg *config.Config, logger *slog.Logger, initialPath string) error {
	a := New(fyneapp.NewWithID(AppID), cfg, logger)

	if initialPath != "" {
		abs, err := filepath.Abs(initialPath)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", initialPath, err)
		}
		a.settings.SetLastPath(abs)
		a.OpenImage(abs)
	} else {
		a.openLastImageIfAny()
	}

	a.window.ShowAndRun()
	return nil
}
