// Package camera resolves the front-facing camera, watches whether any
// process holds it in exclusive use, and supplies per-frame face detections
// while it can be captured.
package camera

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// sysVideoClass is the sysfs directory listing video4linux devices.
const sysVideoClass = "/sys/class/video4linux"

// front-facing name markers, checked case-insensitively against the
// device's reported name.
var frontMarkers = []string{"front", "integrated", "user-facing"}

// DiscoverFront scans the platform camera identifiers and returns the
// device node of the first camera whose reported name reads as
// front-facing. Returns ErrDeviceNotFound if none matches.
func DiscoverFront() (string, error) {
	return discoverFront(sysVideoClass)
}

func discoverFront(classDir string) (string, error) {
	entries, err := os.ReadDir(classDir)
	if err != nil {
		return "", ErrDeviceNotFound
	}

	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "video") {
			names = append(names, e.Name())
		}
	}
	// Scan in device-number order so the first match is deterministic
	sort.Slice(names, func(i, j int) bool {
		return deviceNumber(names[i]) < deviceNumber(names[j])
	})

	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(classDir, name, "name"))
		if err != nil {
			continue
		}
		if isFrontFacing(string(raw)) {
			return "/dev/" + name, nil
		}
	}

	return "", ErrDeviceNotFound
}

// isFrontFacing reports whether a camera name identifies a front-facing
// device.
func isFrontFacing(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range frontMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// deviceNumber extracts the numeric suffix of a videoN device name.
func deviceNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(name, "video"))
	if err != nil {
		return 1 << 30
	}
	return n
}
