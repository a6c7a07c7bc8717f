//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginItemDesktopEntry(t *testing.T) {
	root := t.TempDir()
	item := &LoginItem{Name: "Sync Breath", Exec: "/opt/sync breath/syncbreath", root: root}
	path := filepath.Join(root, "autostart", "sync-breath.desktop")

	assert.False(t, item.Enabled())
	require.NoError(t, item.Apply(true))
	assert.True(t, item.Enabled())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=Sync Breath\n")
	assert.Contains(t, string(content), `Exec="/opt/sync breath/syncbreath"`)

	require.NoError(t, item.Apply(true))
	require.NoError(t, item.Apply(false))
	assert.False(t, item.Enabled())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, item.Disable())
}

func TestNewLoginItemRejectsEmptyName(t *testing.T) {
	_, err := NewLoginItem("  ")
	assert.Error(t, err)

	item, err := NewLoginItem("SyncBreath")
	require.NoError(t, err)
	assert.NotEmpty(t, item.Exec)
}
