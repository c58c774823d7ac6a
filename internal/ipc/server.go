package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/tiling"
	"github.com/1broseidon/wingrid/internal/windows"
)

// Service is the set of operations the daemon exposes. *engine.Engine
// implements it.
type Service interface {
	ListWindows(appNames []string) []windows.Record
	ActivateWindow(id string) bool
	CloseWindow(id string) engine.CloseResult
	OpenTerminal(path string) engine.OpenResult
	OpenFileManager(path string) engine.OpenResult
	OpenApp(command, path string) engine.OpenResult
	GetDisplays() []platform.Display
	ArrangeGrid(appNames []string, opts engine.Options) engine.ArrangeResult
	GridPresets() map[string]tiling.GridPlan
	ToolStatus() engine.ToolStatus
}

// Arrange sources recorded in the status.
const (
	SourceIPC    = "ipc"
	SourceHotkey = "hotkey"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	svcMu        sync.RWMutex
	svc          Service
	logger       *zap.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex

	// arrangeMu serializes arrangements so two grids never interleave.
	arrangeMu   sync.Mutex
	lastMu      sync.RWMutex
	lastArrange *LastArrange
}

// NewServer creates a server that will listen on socketPath.
func NewServer(socketPath string, svc Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		socketPath: socketPath,
		svc:        svc,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// SetService swaps the service used for subsequent requests, e.g. after
// a config reload.
func (s *Server) SetService(svc Service) {
	s.svcMu.Lock()
	s.svc = svc
	s.svcMu.Unlock()
}

func (s *Server) service() Service {
	s.svcMu.RLock()
	defer s.svcMu.RUnlock()
	return s.svc
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// A stale socket from a crashed daemon would make Listen fail.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", zap.Error(err))
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", zap.Error(err))
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", zap.Error(err))
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", zap.String("command", string(req.Command)))
	svc := s.service()

	switch req.Command {
	case CommandListWindows:
		var p ListWindowsPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(svc.ListWindows(p.AppNames))
	case CommandActivateWindow:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.ID == "" {
			return NewErrorResponse("id is required")
		}
		return ok(ActivateData{Success: svc.ActivateWindow(p.ID)})
	case CommandCloseWindow:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.ID == "" {
			return NewErrorResponse("id is required")
		}
		return ok(svc.CloseWindow(p.ID))
	case CommandOpenTerminal, CommandOpenFileManager, CommandOpenApp:
		return s.handleOpen(svc, req)
	case CommandGetDisplays:
		return ok(svc.GetDisplays())
	case CommandArrangeGrid:
		var p ArrangePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(s.Arrange(SourceIPC, p.AppNames, p.Options))
	case CommandListPresets:
		return ok(PresetsData{Presets: svc.GridPresets()})
	case CommandGetStatus:
		return ok(s.Status())
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleOpen(svc Service, req *Request) *Response {
	var p OpenPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	switch req.Command {
	case CommandOpenTerminal:
		return ok(svc.OpenTerminal(p.Path))
	case CommandOpenFileManager:
		return ok(svc.OpenFileManager(p.Path))
	default:
		if p.App == "" {
			return NewErrorResponse("app is required")
		}
		return ok(svc.OpenApp(p.App, p.Path))
	}
}

// Arrange runs one arrangement under the server's arrange lock and
// records it as the last arrangement. The hotkey path uses this too.
func (s *Server) Arrange(source string, appNames []string, opts engine.Options) engine.ArrangeResult {
	s.arrangeMu.Lock()
	result := s.service().ArrangeGrid(appNames, opts)
	s.arrangeMu.Unlock()

	s.lastMu.Lock()
	s.lastArrange = &LastArrange{At: time.Now(), Source: source, Result: result}
	s.lastMu.Unlock()

	if !result.Success {
		s.logger.Warn("arrange failed", zap.String("source", source), zap.String("error", result.Error))
	}
	return result
}

// Status returns the current daemon status.
func (s *Server) Status() StatusData {
	s.lastMu.RLock()
	var last *LastArrange
	if s.lastArrange != nil {
		copied := *s.lastArrange
		last = &copied
	}
	s.lastMu.RUnlock()

	return StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Tools:         s.service().ToolStatus(),
		LastArrange:   last,
	}
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
