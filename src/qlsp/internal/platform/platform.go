// Package platform names the operating system and architecture the way the language server manifest does.
package platform

import (
	"fmt"
	"runtime"
)

// Platform names used by manifest targets.
const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
)

// Architecture names used by manifest targets.
const (
	X64   = "x64"
	Arm64 = "arm64"
)

// Info describes a host platform.
type Info struct {
	Platform     string
	Architecture string
}

// Detect returns the Info of the running process.
func Detect() (Info, error) {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

// FromGo maps GOOS and GOARCH values to manifest names.
func FromGo(goos, goarch string) (Info, error) {
	var info Info
	switch goos {
	case "linux":
		info.Platform = Linux
	case "darwin":
		info.Platform = Darwin
	case "windows":
		info.Platform = Windows
	default:
		return Info{}, fmt.Errorf("unsupported platform %q", goos)
	}

	switch goarch {
	case "amd64":
		info.Architecture = X64
	case "arm64":
		info.Architecture = Arm64
	default:
		return Info{}, fmt.Errorf("unsupported architecture %q", goarch)
	}
	return info, nil
}

// ExecutableName is the name of the runtime that launches the server entry point.
func (i Info) ExecutableName() string {
	if i.Platform == Windows {
		return "node.exe"
	}
	return "node"
}

// IsPOSIX reports whether file modes are meaningful on this platform.
func (i Info) IsPOSIX() bool {
	return i.Platform != Windows
}

func (i Info) String() string {
	return i.Platform + "-" + i.Architecture
}
