package camera

import (
	"errors"
	"sync"
	"syscall"
	"time"
)

// DefaultPollInterval is how often the poller probes the device node.
const DefaultPollInterval = 500 * time.Millisecond

// UsagePoller implements Notifier by periodically probing the camera device
// node with a non-blocking open. Drivers that enforce exclusive access
// return EBUSY while another process holds the device; that is the signal a
// process has the camera in exclusive use.
//
// Every poll result is forwarded to the callback, including repeats: the
// Monitor layer owns deduplication.
type UsagePoller struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewUsagePoller creates a poller with the given probe interval.
// A non-positive interval selects DefaultPollInterval.
func NewUsagePoller(interval time.Duration) *UsagePoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &UsagePoller{interval: interval}
}

// Register starts the poll loop for the device.
func (p *UsagePoller) Register(device string, fn func(inUse bool)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return ErrAlreadyStarted
	}

	// Probe once up front so registration fails fast on a missing node
	if _, err := probe(device); err != nil {
		return err
	}

	stop := make(chan struct{})
	p.stop = stop

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				inUse, err := probe(device)
				if err != nil {
					// Device vanished mid-session; report not in use
					fn(false)
					continue
				}
				fn(inUse)
			}
		}
	}()

	return nil
}

// Unregister stops the poll loop. Safe to call multiple times.
func (p *UsagePoller) Unregister() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// probe attempts a non-blocking open of the device node.
// Returns true when another process holds the device exclusively.
func probe(device string) (bool, error) {
	fd, err := syscall.Open(device, syscall.O_RDWR|syscall.O_NONBLOCK, 0)
	if err == nil {
		syscall.Close(fd)
		return false, nil
	}
	if errors.Is(err, syscall.EBUSY) {
		return true, nil
	}
	return false, err
}
