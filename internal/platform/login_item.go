package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrLoginUnsupported is returned where no login mechanism is known.
var ErrLoginUnsupported = errors.New("launch at login unsupported on this platform")

// LoginItem registers an executable to start with the desktop session.
type LoginItem struct {
	Name string
	Exec string
	// root replaces the user directory the entry is written under.
	root string
}

// NewLoginItem describes the running executable as appName.
func NewLoginItem(appName string) (*LoginItem, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, fmt.Errorf("login item: app name is empty")
	}
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("login item: resolve executable: %w", err)
	}
	return &LoginItem{Name: appName, Exec: execPath}, nil
}

// Apply registers or unregisters the item when its state differs.
func (item *LoginItem) Apply(enabled bool) error {
	if item.Enabled() == enabled {
		return nil
	}
	if enabled {
		return item.Enable()
	}
	return item.Disable()
}

func (item *LoginItem) slug() string {
	name := strings.ToLower(strings.TrimSpace(item.Name))
	return strings.ReplaceAll(name, " ", "-")
}
