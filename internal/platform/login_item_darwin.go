//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Enable writes a LaunchAgent plist with RunAtLoad.
func (item *LoginItem) Enable() error {
	if item.Exec == "" {
		return fmt.Errorf("enable login item: exec path is empty")
	}
	path, err := item.plistPath()
	if err != nil {
		return fmt.Errorf("enable login item: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable login item: create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(item.plist()), 0o644); err != nil {
		return fmt.Errorf("enable login item: write plist: %w", err)
	}
	return nil
}

// Disable removes the LaunchAgent plist.
func (item *LoginItem) Disable() error {
	path, err := item.plistPath()
	if err != nil {
		return fmt.Errorf("disable login item: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable login item: remove plist: %w", err)
	}
	return nil
}

// Enabled reports whether the plist exists.
func (item *LoginItem) Enabled() bool {
	path, err := item.plistPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (item *LoginItem) label() string {
	return "app.syncbreath." + item.slug()
}

func (item *LoginItem) plistPath() (string, error) {
	root := item.root
	if root == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		root = homeDir
	}
	return filepath.Join(root, "Library", "LaunchAgents", item.label()+".plist"), nil
}

func (item *LoginItem) plist() string {
	escape := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, escape.Replace(item.label()), escape.Replace(item.Exec))
}
