package brightness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/uzumaki-ak/LumaFront/internal/log"
)

var (
	// ErrNoBacklight means no backlight device was found under sysfs.
	ErrNoBacklight = errors.New("brightness: no backlight device")
	// ErrWriteDenied means the brightness file is not writable by this
	// process, usually a missing udev rule or group membership.
	ErrWriteDenied = errors.New("brightness: write denied")
)

const sysBacklightClass = "/sys/class/backlight"

// Backlight reads and writes panel brightness through the kernel
// backlight class. Values are raw device units, 0..Max.
type Backlight struct {
	dir string
}

// Open binds to a named backlight device, or to the first one found
// when name is empty.
func Open(name string) (*Backlight, error) {
	return open(sysBacklightClass, name)
}

func open(classDir, name string) (*Backlight, error) {
	if name != "" {
		dir := filepath.Join(classDir, name)
		if _, err := os.Stat(filepath.Join(dir, "brightness")); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoBacklight, name)
		}
		return &Backlight{dir: dir}, nil
	}
	entries, err := os.ReadDir(classDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoBacklight
		}
		return nil, fmt.Errorf("reading %s: %w", classDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, n := range names {
		dir := filepath.Join(classDir, n)
		if _, err := os.Stat(filepath.Join(dir, "brightness")); err == nil {
			log.Debug("using backlight device", "name", n)
			return &Backlight{dir: dir}, nil
		}
	}
	return nil, ErrNoBacklight
}

// Device returns the sysfs device name.
func (b *Backlight) Device() string { return filepath.Base(b.dir) }

// Read returns the current brightness in device units.
func (b *Backlight) Read() (int, error) {
	return b.readInt("brightness")
}

// Max returns the device's maximum brightness.
func (b *Backlight) Max() (int, error) {
	return b.readInt("max_brightness")
}

// Write sets the brightness, clamping to the device range.
func (b *Backlight) Write(value int) error {
	if value < 0 {
		value = 0
	}
	if max, err := b.Max(); err == nil && value > max {
		value = max
	}
	path := filepath.Join(b.dir, "brightness")
	err := os.WriteFile(path, []byte(strconv.Itoa(value)), 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrWriteDenied, path)
		}
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Writable probes whether the brightness file accepts writes without
// changing the visible level.
func (b *Backlight) Writable() bool {
	cur, err := b.Read()
	if err != nil {
		return false
	}
	return b.Write(cur) == nil
}

func (b *Backlight) readInt(file string) (int, error) {
	path := filepath.Join(b.dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}
