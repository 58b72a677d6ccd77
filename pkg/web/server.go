// Package web provides a real-time dashboard for the glow service.
package web

import (
	"image"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/uzumaki-ak/LumaFront/internal/log"
	"github.com/uzumaki-ak/LumaFront/pkg/activation"
	"github.com/uzumaki-ak/LumaFront/pkg/glow"
	"github.com/uzumaki-ak/LumaFront/pkg/hub"
)

// State is the dashboard's view of the service.
type State struct {
	Status         string `json:"status"` // "active" or "waiting for camera"
	State          string `json:"state"`  // machine state: idle, active, pending_deactivation
	CycleID        string `json:"cycle_id,omitempty"`
	OverlayVisible bool   `json:"overlay_visible"`
	FacePresent    bool   `json:"face_present"`
	FaceLeft       int    `json:"face_left"`
	FaceTop        int    `json:"face_top"`
	FaceRight      int    `json:"face_right"`
	FaceBottom     int    `json:"face_bottom"`
	UpdatedAt      string `json:"updated_at"`
}

// Server is the web dashboard server. The probe callbacks are set once
// before Start and read live values per request.
type Server struct {
	app  *fiber.App
	port string

	state   State
	stateMu sync.RWMutex

	statusHub  *hub.Hub
	previewHub *hub.Hub

	// Activation returns the controller's published state snapshot.
	Activation func() activation.Snapshot

	// OverlayVisible reports whether the glow surface is attached.
	OverlayVisible func() bool

	// FacePosition returns the current smoothed face estimate.
	FacePosition func() (image.Rectangle, bool)

	// GlowConfig returns the active glow configuration.
	GlowConfig func() glow.Config

	// OnGlowConfig applies a config submitted through the API.
	OnGlowConfig func(glow.Config) error
}

// NewServer creates the dashboard server on the given port.
func NewServer(port string) *Server {
	s := &Server{
		port:       port,
		statusHub:  hub.New("status"),
		previewHub: hub.New("preview"),
	}
	s.state.Status = "starting"

	app := fiber.New(fiber.Config{
		AppName:               "LumaFront Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/glow", s.handleGetGlow)
	api.Post("/glow", s.handleSetGlow)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.previewHub.Run()
	log.Info("dashboard listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server stopped", "err", err)
		}
	}()
}

// Publish updates the service status and pushes a fresh state to all
// status subscribers. Satisfies the activation status sink.
func (s *Server) Publish(status string) {
	s.stateMu.Lock()
	s.state.Status = status
	s.stateMu.Unlock()
	s.broadcastState()
}

// PreviewHub returns the hub that streams overlay preview frames.
func (s *Server) PreviewHub() *hub.Hub {
	return s.previewHub
}

// NotifyFace refreshes the dashboard's face fields and pushes state.
func (s *Server) NotifyFace(face image.Rectangle, present bool) {
	s.stateMu.Lock()
	s.state.FacePresent = present
	s.state.FaceLeft = face.Min.X
	s.state.FaceTop = face.Min.Y
	s.state.FaceRight = face.Max.X
	s.state.FaceBottom = face.Max.Y
	s.stateMu.Unlock()
	s.broadcastState()
}

func (s *Server) snapshotState() State {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()
	if s.Activation != nil {
		snap := s.Activation()
		state.State = snap.State
		state.CycleID = snap.CycleID
	}
	if s.OverlayVisible != nil {
		state.OverlayVisible = s.OverlayVisible()
	}
	if s.FacePosition != nil {
		face, present := s.FacePosition()
		state.FacePresent = present
		state.FaceLeft = face.Min.X
		state.FaceTop = face.Min.Y
		state.FaceRight = face.Max.X
		state.FaceBottom = face.Max.Y
	}
	state.UpdatedAt = time.Now().Format(time.RFC3339)
	return state
}

func (s *Server) broadcastState() {
	if s.statusHub.ClientCount() == 0 {
		return
	}
	s.statusHub.BroadcastJSON(s.snapshotState())
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
