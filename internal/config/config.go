// Package config provides environment-variable configuration helpers for
// lumafront commands.
package config

import (
	"os"
	"strconv"
)

// Default configuration values.
const (
	DefaultDashboardPort = "8090"
	DefaultLogLevel      = "info"
	DefaultVideoGlob     = "/sys/class/video4linux"
	DefaultPrefsURL      = "" // empty disables the preferences client
)

// DashboardPort returns the dashboard port from LUMA_PORT or the default.
func DashboardPort() string {
	if p := os.Getenv("LUMA_PORT"); p != "" {
		return p
	}
	return DefaultDashboardPort
}

// LogLevel returns the log level from LUMA_LOG_LEVEL or the default.
func LogLevel() string {
	if l := os.Getenv("LUMA_LOG_LEVEL"); l != "" {
		return l
	}
	return DefaultLogLevel
}

// VideoDevice returns an explicit camera device path from LUMA_CAMERA.
// Empty means discover the front camera automatically.
func VideoDevice() string {
	return os.Getenv("LUMA_CAMERA")
}

// BacklightDevice returns the backlight device name from LUMA_BACKLIGHT.
// Empty means pick the first device under /sys/class/backlight.
func BacklightDevice() string {
	return os.Getenv("LUMA_BACKLIGHT")
}

// PrefsURL returns the websocket URL of the external preferences service
// from LUMA_PREFS_URL. Empty disables the client.
func PrefsURL() string {
	if u := os.Getenv("LUMA_PREFS_URL"); u != "" {
		return u
	}
	return DefaultPrefsURL
}

// ScreenSize returns the target screen dimensions from LUMA_SCREEN ("WxH").
// Falls back to the provided defaults when unset or malformed.
func ScreenSize(defaultW, defaultH int) (int, int) {
	s := os.Getenv("LUMA_SCREEN")
	if s == "" {
		return defaultW, defaultH
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 'x' || s[i] == 'X' {
			w, errW := strconv.Atoi(s[:i])
			h, errH := strconv.Atoi(s[i+1:])
			if errW == nil && errH == nil && w > 0 && h > 0 {
				return w, h
			}
			break
		}
	}
	return defaultW, defaultH
}
