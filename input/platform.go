package input

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform selects how the primary chord modifier is resolved.
type Platform string

const (
	Darwin  Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
)

// CurrentPlatform returns the platform of the running process. Unknown
// systems resolve like Linux.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	}
	return Linux
}

// ParsePlatform parses a platform name. "auto" and "" select
// CurrentPlatform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CurrentPlatform(), nil
	case "darwin", "macos", "mac":
		return Darwin, nil
	case "linux":
		return Linux, nil
	case "windows":
		return Windows, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Normalize returns ev with ModPrimary resolved for p. The meta key is always
// primary; on Linux, where terminals rarely deliver meta, ctrl is too.
// Any ModPrimary already present on ev is discarded first.
func Normalize(ev KeyEvent, p Platform) KeyEvent {
	ev.Mod = ev.Mod.Without(ModPrimary)
	if ev.Meta() || (p == Linux && ev.Ctrl()) {
		ev.Mod = ev.Mod.With(ModPrimary)
	}
	return ev
}
