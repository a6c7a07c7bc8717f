//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Enable writes an XDG autostart desktop entry.
func (item *LoginItem) Enable() error {
	if item.Exec == "" {
		return fmt.Errorf("enable login item: exec path is empty")
	}
	path, err := item.entryPath()
	if err != nil {
		return fmt.Errorf("enable login item: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable login item: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(item.desktopEntry()), 0o644); err != nil {
		return fmt.Errorf("enable login item: write desktop entry: %w", err)
	}
	return nil
}

// Disable removes the desktop entry.
func (item *LoginItem) Disable() error {
	path, err := item.entryPath()
	if err != nil {
		return fmt.Errorf("disable login item: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable login item: remove desktop entry: %w", err)
	}
	return nil
}

// Enabled reports whether the desktop entry exists.
func (item *LoginItem) Enabled() bool {
	path, err := item.entryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (item *LoginItem) entryPath() (string, error) {
	root := item.root
	if root == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		root = configDir
	}
	return filepath.Join(root, "autostart", item.slug()+".desktop"), nil
}

func (item *LoginItem) desktopEntry() string {
	execLine := item.Exec
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Guided breathing
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, item.Name, execLine)
}
