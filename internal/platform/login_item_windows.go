//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// Enable adds the executable to the current user's Run key.
func (item *LoginItem) Enable() error {
	if item.Exec == "" {
		return fmt.Errorf("enable login item: exec path is empty")
	}
	quoted := `"` + strings.Trim(item.Exec, `"`) + `"`
	output, err := exec.Command("reg", "add", runKey, "/v", item.Name, "/t", "REG_SZ", "/d", quoted, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable login item: reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Disable removes the Run key value.
func (item *LoginItem) Disable() error {
	output, err := exec.Command("reg", "delete", runKey, "/v", item.Name, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable login item: reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Enabled reports whether the Run key value exists.
func (item *LoginItem) Enabled() bool {
	return exec.Command("reg", "query", runKey, "/v", item.Name).Run() == nil
}
