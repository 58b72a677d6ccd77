// lumafront watches the front camera for exclusive use and renders a
// face-following ambient glow around the screen edge while a call is
// in progress.
package main

import (
	"context"
	"flag"
	"os/signal"
	"sync"
	"syscall"

	"github.com/uzumaki-ak/LumaFront/internal/config"
	"github.com/uzumaki-ak/LumaFront/internal/log"
	"github.com/uzumaki-ak/LumaFront/pkg/activation"
	"github.com/uzumaki-ak/LumaFront/pkg/brightness"
	"github.com/uzumaki-ak/LumaFront/pkg/camera"
	"github.com/uzumaki-ak/LumaFront/pkg/detect"
	"github.com/uzumaki-ak/LumaFront/pkg/glow"
	"github.com/uzumaki-ak/LumaFront/pkg/overlay"
	"github.com/uzumaki-ak/LumaFront/pkg/prefs"
	"github.com/uzumaki-ak/LumaFront/pkg/track"
	"github.com/uzumaki-ak/LumaFront/pkg/web"
)

const (
	defaultScreenWidth  = 1920
	defaultScreenHeight = 1080
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	headless := flag.Bool("headless", false, "Stream the overlay to the dashboard instead of a window")
	port := flag.String("port", config.DashboardPort(), "Dashboard port")
	device := flag.String("camera", config.VideoDevice(), "Camera device path (empty: discover front camera)")
	backlightName := flag.String("backlight", config.BacklightDevice(), "Backlight device name (empty: first found)")
	modelPath := flag.String("model", detect.DefaultConfig().ModelPath, "YuNet face detection model path")
	flag.Parse()

	level := config.LogLevel()
	if *debug {
		level = "debug"
	}
	log.Init(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	screenW, screenH := config.ScreenSize(defaultScreenWidth, defaultScreenHeight)

	// Camera device: explicit flag or sysfs discovery. Missing camera is
	// not fatal; the monitor goes inert and the tracker falls back.
	dev := *device
	if dev == "" {
		discovered, err := camera.DiscoverFront()
		if err != nil {
			log.Warn("front camera not found, running degraded", "err", err)
		} else {
			dev = discovered
		}
	}

	backlight, err := brightness.Open(*backlightName)
	if err != nil {
		log.Warn("backlight unavailable, brightness untouched", "err", err)
	}

	server := web.NewServer(*port)

	// Overlay surface and renderer.
	var surface overlay.Surface
	var window *overlay.WindowSurface
	if *headless {
		surface = overlay.NewStreamSurface(screenW, screenH, server.PreviewHub())
	} else {
		window = overlay.NewWindowSurface(screenW, screenH)
		surface = window
	}
	renderer := overlay.New(surface, glow.DefaultConfig())
	go renderer.Run(ctx)

	// Glow configuration: API posts and optional preference pushes both
	// land on the renderer.
	var cfgMu sync.RWMutex
	current := glow.DefaultConfig()
	applyGlow := func(cfg glow.Config) {
		cfgMu.Lock()
		current = cfg
		cfgMu.Unlock()
		renderer.SetConfig(cfg)
	}
	if url := config.PrefsURL(); url != "" {
		client := prefs.NewClient(url, current)
		client.OnConfig = applyGlow
		go client.Run(ctx)
	}

	// Face pipeline.
	var source track.FrameSource = unavailableSource{}
	if dev != "" {
		detCfg := detect.DefaultConfig()
		detCfg.ModelPath = *modelPath
		detector, err := detect.NewYuNet(detCfg)
		if err != nil {
			log.Warn("face detector unavailable, using fallback position", "err", err)
		} else {
			defer detector.Close()
			source = camera.NewSource(dev, detector)
		}
	}
	tracker := track.New(track.DefaultConfig(screenW, screenH), source)
	tracker.OnEstimate = func(e track.Estimate) {
		renderer.UpdatePosition(e.Box.Rect(), e.Present)
		server.NotifyFace(e.Box.Rect(), e.Present)
	}

	// Exclusive-use monitoring and the activation state machine.
	monitor := camera.NewMonitor(camera.NewUsagePoller(0))
	if err := monitor.Start(); err != nil {
		log.Warn("camera monitor degraded", "err", err)
	}
	defer monitor.Stop()

	gate := &platformGate{device: dev, backlight: backlight}
	var brightnessPort activation.BrightnessPort
	if backlight != nil {
		brightnessPort = backlight
	}
	controller := activation.New(activation.DefaultConfig(), gate, server, brightnessPort, tracker, renderer)

	controllerDone := make(chan struct{})
	go func() {
		defer close(controllerDone)
		controller.Run(ctx, monitor.Signals())
	}()

	server.Activation = controller.Snapshot
	server.OverlayVisible = renderer.Visible
	server.FacePosition = renderer.FacePosition
	server.GlowConfig = func() glow.Config {
		cfgMu.RLock()
		defer cfgMu.RUnlock()
		return current
	}
	server.OnGlowConfig = func(cfg glow.Config) error {
		applyGlow(cfg)
		return nil
	}
	server.StartAsync()

	if window != nil {
		// Ebiten owns the main goroutine until shutdown.
		go func() {
			<-ctx.Done()
			window.Close()
		}()
		if err := window.Run(); err != nil {
			log.Error("overlay window failed", "err", err)
		}
		cancel()
	} else {
		<-ctx.Done()
	}

	<-controllerDone
	if err := server.Shutdown(); err != nil {
		log.Warn("dashboard shutdown", "err", err)
	}
	log.Info("lumafront stopped")
}

// unavailableSource stands in when no camera device or detector could be
// set up. Start fails with the capture error so the tracker degrades to
// its static fallback position.
type unavailableSource struct{}

func (unavailableSource) Start(context.Context, func(camera.Frame)) error {
	return camera.ErrCameraUnavailable
}

func (unavailableSource) Stop() {}
