//go:build !linux && !darwin && !windows

package platform

func (item *LoginItem) Enable() error  { return ErrLoginUnsupported }
func (item *LoginItem) Disable() error { return nil }
func (item *LoginItem) Enabled() bool  { return false }
