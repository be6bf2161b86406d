// Package platform provides host platform detection for dialog rendering
// decisions and health reporting.
package platform

import (
	"os"
	"runtime"
)

// Name is the current platform identifier (runtime.GOOS).
var Name = runtime.GOOS

// IsWindows reports whether the server runs on Windows.
func IsWindows() bool { return Name == "windows" }

// IsMacOS reports whether the server runs on macOS.
func IsMacOS() bool { return Name == "darwin" }

// IsLinux reports whether the server runs on Linux.
func IsLinux() bool { return Name == "linux" }

// HasDisplay reports whether a graphical display is reachable. Windows and
// macOS always have one; on Linux and the BSDs it requires an X11 or Wayland
// session.
func HasDisplay() bool {
	switch Name {
	case "windows", "darwin":
		return true
	default:
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
}

// Info is a snapshot of host details for health reporting.
type Info struct {
	System    string `json:"system"`
	Arch      string `json:"arch"`
	GoVersion string `json:"go_version"`
	NumCPU    int    `json:"num_cpu"`
	IsWindows bool   `json:"is_windows"`
	IsMacOS   bool   `json:"is_macos"`
	IsLinux   bool   `json:"is_linux"`
	Display   bool   `json:"display_available"`
}

// Current returns the host platform snapshot.
func Current() Info {
	return Info{
		System:    Name,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
		IsWindows: IsWindows(),
		IsMacOS:   IsMacOS(),
		IsLinux:   IsLinux(),
		Display:   HasDisplay(),
	}
}
