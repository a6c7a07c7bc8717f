package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"syncbreath/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnToggle      func()
	OnMode        func(model.ModeID)
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	modes       model.Catalogue
	callbacks   Callbacks
	running     bool
	current     model.ModeID
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, modes model.Catalogue, current model.ModeID, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		modes:       modes,
		callbacks:   callbacks,
		current:     current,
		statusLabel: "ready",
	}
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshMenu()
}

// SetRunning updates the start/pause item.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	manager.refreshMenu()
}

// SetMode marks id as the active mode.
func (manager *Manager) SetMode(id model.ModeID) {
	manager.current = id
	manager.refreshMenu()
}

// StatusText returns the label shown in the first menu row.
func (manager *Manager) StatusText() string {
	status := manager.statusLabel
	if !manager.running {
		status = fmt.Sprintf("%s (paused)", status)
	}
	return fmt.Sprintf("Status: %s", status)
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}

	statusItem := fyne.NewMenuItem(manager.StatusText(), nil)
	statusItem.Disabled = true

	toggleLabel := "Start breathing"
	if manager.running {
		toggleLabel = "Pause"
	}

	modeItems := make([]*fyne.MenuItem, 0, len(manager.modes))
	for _, mode := range manager.modes {
		id := mode.ID
		item := fyne.NewMenuItem(mode.Title, func() {
			if manager.callbacks.OnMode != nil {
				manager.callbacks.OnMode(id)
			}
		})
		item.Checked = id == manager.current
		modeItems = append(modeItems, item)
	}
	modesItem := fyne.NewMenuItem("Mode", nil)
	modesItem.ChildMenu = fyne.NewMenu("", modeItems...)

	manager.app.SetSystemTrayMenu(fyne.NewMenu("SyncBreath",
		statusItem,
		manager.item("Show", manager.callbacks.OnShow),
		manager.item(toggleLabel, manager.callbacks.OnToggle),
		modesItem,
		manager.item("Preferences", manager.callbacks.OnPreferences),
		fyne.NewMenuItemSeparator(),
		manager.item("Quit", manager.callbacks.OnQuit),
	))
}

func (manager *Manager) item(label string, action func()) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		if action != nil {
			action()
		}
	})
}
