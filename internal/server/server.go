package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/vesyncd/internal/config"
	"github.com/jmylchreest/vesyncd/internal/events"
	"github.com/jmylchreest/vesyncd/internal/http/handlers"
	"github.com/jmylchreest/vesyncd/internal/http/mw"
	"github.com/jmylchreest/vesyncd/internal/http/routes"
	"github.com/jmylchreest/vesyncd/internal/logging"
	"github.com/jmylchreest/vesyncd/internal/ws"
	"github.com/jmylchreest/vesyncd/pkg/vesync"
)

// Server manages the vesyncd daemon: the cloud sync loop, the Unix control
// socket and the HTTP API.
type Server struct {
	logger     *slog.Logger
	cfg        *config.Config
	manager    *vesync.Manager
	version    string
	socketPath string
	listener   net.Listener
	shutdown   chan struct{}
	wg         sync.WaitGroup
	rootCtx    context.Context
	rootCancel context.CancelFunc
	httpServer *http.Server
	eventBus   *events.Bus
}

// New creates a new server instance around an already logged-in manager.
func New(logger *slog.Logger, cfg *config.Config, manager *vesync.Manager, bus *events.Bus, version string) *Server {
	if bus == nil {
		bus = events.NewBus()
	}
	rootCtx, rootCancel := context.WithCancel(context.Background())

	return &Server{
		logger:     logger,
		cfg:        cfg,
		manager:    manager,
		version:    version,
		socketPath: cfg.Server.UnixSocket,
		shutdown:   make(chan struct{}),
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
		eventBus:   bus,
	}
}

// Start begins server operations: the cloud sync worker, the Unix socket
// listener and, when configured, the HTTP API server.
func (s *Server) Start() error {
	s.logger.Info("Starting vesyncd server")

	// Periodic cloud sync worker
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in sync worker", "recover", r)
			}
		}()
		s.runSyncLoop()
	}()

	// Ensure socket directory exists
	sockDir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(sockDir, 0755); err != nil {
		return fmt.Errorf("failed to create socket directory %s: %w", sockDir, err)
	}

	// Remove existing socket file if it exists
	if _, err := os.Stat(s.socketPath); err == nil {
		if err := os.Remove(s.socketPath); err != nil {
			return fmt.Errorf("failed to remove existing socket file %s: %w", s.socketPath, err)
		}
	}

	var err error
	s.listener, err = net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket %s: %w", s.socketPath, err)
	}
	s.logger.Info("Listening on Unix socket", "path", s.socketPath)

	s.wg.Add(1)
	go s.acceptConnections()

	if s.cfg.HTTP.ListenAddress != "" {
		s.startHTTP()
	}

	return nil
}

// runSyncLoop refreshes the device registry on the configured interval until
// shutdown. The first sync runs immediately.
func (s *Server) runSyncLoop() {
	interval := time.Duration(s.cfg.Sync.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.syncOnce()
	for {
		select {
		case <-s.shutdown:
			return
		case <-ticker.C:
			s.syncOnce()
		}
	}
}

func (s *Server) syncOnce() {
	ctx, cancel := context.WithTimeout(s.rootCtx, time.Duration(s.cfg.API.TimeoutSeconds)*time.Second*4)
	defer cancel()
	if err := s.manager.UpdateAll(ctx); err != nil {
		s.logger.Warn("cloud sync failed", "error", err)
	}
}

func (s *Server) startHTTP() {
	s.logger.Info("Starting HTTP API server", "address", s.cfg.HTTP.ListenAddress)

	deviceHandler := &handlers.DeviceHandler{Manager: s.manager}
	timerHandler := &handlers.TimerHandler{Manager: s.manager, Bus: s.eventBus}

	// Chi router with global middleware; rate limiting runs before routing.
	router := chi.NewRouter()
	router.Use(mw.RequestLogging(s.logger))
	router.Use(mw.RateLimitByIP(mw.RateLimitConfig{RequestsPerMinute: s.cfg.HTTP.RateLimitRPM}))

	humaConfig := routes.NewHumaConfig(s.version, "")
	api := humachi.New(router, humaConfig)

	routes.Register(api, &routes.Handlers{
		HealthCheck: handlers.HealthCheck,
		Version:     handlers.VersionHandler{Version: s.version}.Get,
		Device:      deviceHandler,
		Timer:       timerHandler,
	})

	// WebSocket hub broadcasting event-bus traffic.
	wsHub := ws.NewHub(s.logger, s.eventBus)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in WebSocket hub", "recover", r)
			}
		}()
		wsHub.Run(s.rootCtx)
	}()
	router.Get("/api/v1/events", ws.Handler(wsHub, s.logger))

	s.httpServer = &http.Server{
		Addr:         s.cfg.HTTP.ListenAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in HTTP server goroutine", "recover", r)
			}
		}()
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", "error", err)
		}
		s.logger.Info("HTTP server stopped")
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down vesyncd server")
	s.rootCancel()
	close(s.shutdown)

	if s.listener != nil {
		s.logger.Info("Closing Unix socket listener")
		s.listener.Close()
	}

	if s.httpServer != nil {
		s.logger.Info("Shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown failed", "error", err)
		}
	}

	s.logger.Info("Waiting for services to stop...")
	s.wg.Wait()
	s.logger.Info("vesyncd server shut down gracefully")
}

func (s *Server) acceptConnections() {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in acceptConnections", "recover", r)
		}
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				s.logger.Info("Socket listener shutting down")
				return
			default:
				s.logger.Error("Failed to accept connection", "error", err)
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in connection handler", "recover", r)
		}
	}()

	ctx, cancel := context.WithCancel(s.rootCtx)
	defer cancel()

	go func() {
		select {
		case <-s.shutdown:
			if cconn, ok := conn.(*net.UnixConn); ok {
				cconn.CloseRead() // Force connection to unblock for shutdown
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}()

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "use of closed network connection") {
				s.logger.Debug("Client disconnected")
			} else {
				s.logger.Error("Failed to read from connection", "error", err)
			}
			return
		}

		var req map[string]any
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Error("Failed to unmarshal request", "error", err, "request", string(line))
			s.sendError(conn, "", fmt.Sprintf("invalid JSON request: %s", err))
			continue
		}

		action, _ := req["action"].(string)
		id, _ := req["id"].(string)             // Optional request ID for client tracking
		data, _ := req["data"].(map[string]any) // Data payload

		s.logger.Debug("Received request", "action", action, "id", id, "data", data)
		s.handleAction(ctx, conn, action, id, data)
	}
}

// handleAction dispatches one socket request.
func (s *Server) handleAction(ctx context.Context, conn net.Conn, action, id string, data map[string]any) {
	switch action {
	case "ping":
		s.sendResponse(conn, id, map[string]any{"message": "pong"})

	case "health":
		s.sendResponse(conn, id, map[string]any{"health": "ok"})

	case "version":
		s.sendResponse(conn, id, map[string]any{"version": s.version})

	case "list_devices":
		devices := s.manager.Devices()
		result := make([]map[string]any, 0, len(devices))
		for _, dev := range devices {
			result = append(result, dev.Display())
		}
		s.sendResponse(conn, id, map[string]any{"devices": result})

	case "get_device":
		dev, ok := s.deviceFromData(conn, id, data, action)
		if !ok {
			return
		}
		s.sendResponse(conn, id, map[string]any{"device": dev.Display()})

	case "set_device":
		dev, ok := s.deviceFromData(conn, id, data, action)
		if !ok {
			return
		}

		var errs []string
		set := false
		for _, prop := range []string{"on", "brightness", "color_temp", "mode", "level", "target_humidity"} {
			val, present := data[prop]
			if !present {
				continue
			}
			set = true
			if err := s.setDeviceProperty(ctx, dev, prop, val); err != nil {
				errs = append(errs, err.Error())
			}
		}
		if !set {
			s.sendError(conn, id, "no settable property given for set_device")
			return
		}
		if len(errs) > 0 {
			s.sendError(conn, id, fmt.Sprintf("failed to set device %s state: %s", dev.CID(), strings.Join(errs, "; ")))
			return
		}
		s.eventBus.Publish(events.NewEvent(events.DeviceStateChanged, dev.Display()))
		s.sendResponse(conn, id, map[string]any{"status": "ok"})

	case "get_timer":
		dev, ok := s.deviceFromData(conn, id, data, action)
		if !ok {
			return
		}
		timer, err := dev.FetchTimer(ctx)
		if err != nil {
			s.sendError(conn, id, fmt.Sprintf("failed to fetch timer for %s: %s", dev.CID(), err))
			return
		}
		if timer == nil {
			s.sendResponse(conn, id, map[string]any{"timer": nil})
			return
		}
		s.sendResponse(conn, id, map[string]any{"timer": timerView(timer)})

	case "set_timer":
		dev, ok := s.deviceFromData(conn, id, data, action)
		if !ok {
			return
		}
		seconds, _ := data["duration"].(float64)
		timerAction, _ := data["timer_action"].(string)
		timer, err := dev.SetTimer(ctx, int64(seconds), timerAction)
		if err != nil {
			s.sendError(conn, id, fmt.Sprintf("failed to set timer on %s: %s", dev.CID(), err))
			return
		}
		s.eventBus.Publish(events.NewEvent(events.TimerUpdated, dev.Display()))
		s.sendResponse(conn, id, map[string]any{"timer": timerView(timer)})

	case "clear_timer":
		dev, ok := s.deviceFromData(conn, id, data, action)
		if !ok {
			return
		}
		if err := dev.ClearTimer(ctx); err != nil {
			s.sendError(conn, id, fmt.Sprintf("failed to clear timer on %s: %s", dev.CID(), err))
			return
		}
		s.eventBus.Publish(events.NewEvent(events.TimerUpdated, dev.Display()))
		s.sendResponse(conn, id, map[string]any{"status": "ok"})

	case "sync":
		if err := s.manager.UpdateAll(ctx); err != nil {
			s.sendError(conn, id, fmt.Sprintf("sync failed: %s", err))
			return
		}
		s.sendResponse(conn, id, map[string]any{"status": "ok", "devices": len(s.manager.Devices())})

	case "set_level":
		level, _ := data["level"].(string)
		if level == "" {
			s.sendError(conn, id, "missing level for set_level")
			return
		}
		if logging.ValidateLogLevel(level) != level {
			s.sendError(conn, id, fmt.Sprintf("invalid log level %q; must be debug, info, warn, or error", level))
			return
		}
		logging.SetLevel(level)
		s.logger.Info("Log level changed via socket", "level", level)
		s.sendResponse(conn, id, map[string]any{"level": level})

	default:
		s.logger.Warn("received unknown action", "action", action)
		s.sendError(conn, id, "unknown action: "+action)
	}
}

// deviceFromData resolves data["cid"] to a device, sending an error response
// on failure.
func (s *Server) deviceFromData(conn net.Conn, id string, data map[string]any, action string) (vesync.Device, bool) {
	cid, _ := data["cid"].(string)
	if cid == "" {
		s.sendError(conn, id, "missing cid for "+action)
		return nil, false
	}
	dev, err := s.manager.GetDevice(cid)
	if err != nil {
		s.sendError(conn, id, fmt.Sprintf("failed to get device %s: %s", cid, err))
		return nil, false
	}
	return dev, true
}

// setDeviceProperty sets a single property on a device by name. Properties
// beyond power require the matching concrete type.
func (s *Server) setDeviceProperty(ctx context.Context, dev vesync.Device, property string, value any) error {
	switch property {
	case "on":
		onVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("invalid value type for 'on', expected boolean")
		}
		if onVal {
			return dev.TurnOn(ctx)
		}
		return dev.TurnOff(ctx)

	case "brightness":
		bVal, ok := value.(float64)
		if !ok {
			return fmt.Errorf("invalid value type for 'brightness', expected number")
		}
		switch d := dev.(type) {
		case *vesync.Switch:
			return d.SetBrightness(ctx, int(bVal))
		case *vesync.Bulb:
			return d.SetBrightness(ctx, int(bVal))
		default:
			return fmt.Errorf("device %s does not support brightness", dev.CID())
		}

	case "color_temp":
		tVal, ok := value.(float64)
		if !ok {
			return fmt.Errorf("invalid value type for 'color_temp', expected number")
		}
		bulb, ok := dev.(*vesync.Bulb)
		if !ok {
			return fmt.Errorf("device %s does not support color temperature", dev.CID())
		}
		return bulb.SetColorTemp(ctx, int(tVal))

	case "mode":
		mVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for 'mode', expected string")
		}
		switch d := dev.(type) {
		case *vesync.Fan:
			return d.SetMode(ctx, mVal)
		case *vesync.Humidifier:
			return d.SetMode(ctx, mVal)
		case *vesync.Purifier:
			return d.SetMode(ctx, mVal)
		default:
			return fmt.Errorf("device %s does not support modes", dev.CID())
		}

	case "level":
		lVal, ok := value.(float64)
		if !ok {
			return fmt.Errorf("invalid value type for 'level', expected number")
		}
		switch d := dev.(type) {
		case *vesync.Fan:
			return d.SetSpeed(ctx, int(lVal))
		case *vesync.Humidifier:
			return d.SetMistLevel(ctx, int(lVal))
		case *vesync.Purifier:
			return d.SetFanLevel(ctx, int(lVal))
		default:
			return fmt.Errorf("device %s does not support levels", dev.CID())
		}

	case "target_humidity":
		hVal, ok := value.(float64)
		if !ok {
			return fmt.Errorf("invalid value type for 'target_humidity', expected number")
		}
		hum, ok := dev.(*vesync.Humidifier)
		if !ok {
			return fmt.Errorf("device %s does not support target humidity", dev.CID())
		}
		return hum.SetTargetHumidity(ctx, int(hVal))

	default:
		return fmt.Errorf("unknown property: %s", property)
	}
}

// timerView flattens a timer for socket responses.
func timerView(t *vesync.TimerInfo) map[string]any {
	return map[string]any{
		"id":        t.ID,
		"duration":  t.Duration,
		"action":    t.Action,
		"remaining": t.Remaining,
		"status":    string(t.Status),
	}
}

func (s *Server) sendResponse(conn net.Conn, id string, data map[string]any) {
	response := map[string]any{"status": "ok"}
	if id != "" {
		response["id"] = id
	}
	maps.Copy(response, data)
	if err := json.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Error("Failed to send response", "error", err)
	}
}

func (s *Server) sendError(conn net.Conn, id string, message string) {
	s.logger.Error("Sending error response to client", "id", id, "message", message)
	response := map[string]any{"error": message}
	if id != "" {
		response["id"] = id
	}
	if err := json.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Error("Failed to send error response", "error", err)
	}
}
