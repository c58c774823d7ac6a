package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/tiling"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandListWindows     CommandType = "LIST_WINDOWS"
	CommandActivateWindow  CommandType = "ACTIVATE_WINDOW"
	CommandCloseWindow     CommandType = "CLOSE_WINDOW"
	CommandOpenTerminal    CommandType = "OPEN_TERMINAL"
	CommandOpenFileManager CommandType = "OPEN_FILE_MANAGER"
	CommandOpenApp         CommandType = "OPEN_APP"
	CommandGetDisplays     CommandType = "GET_DISPLAYS"
	CommandArrangeGrid     CommandType = "ARRANGE_GRID"
	CommandListPresets     CommandType = "LIST_PRESETS"
	CommandGetStatus       CommandType = "GET_STATUS"
)

// Response statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ListWindowsPayload scopes LIST_WINDOWS to extra application names.
type ListWindowsPayload struct {
	AppNames []string `json:"appNames,omitempty"`
}

// WindowPayload targets one window for ACTIVATE_WINDOW and CLOSE_WINDOW.
type WindowPayload struct {
	ID string `json:"id"`
}

// OpenPayload is used by the OPEN_* commands. App is required for OPEN_APP.
type OpenPayload struct {
	Path string `json:"path,omitempty"`
	App  string `json:"app,omitempty"`
}

// ArrangePayload is one ARRANGE_GRID request.
type ArrangePayload struct {
	AppNames []string `json:"appNames,omitempty"`
	engine.Options
}

// ActivateData is returned by ACTIVATE_WINDOW.
type ActivateData struct {
	Success bool `json:"success"`
}

// LastArrange describes the most recent arrangement the daemon ran.
type LastArrange struct {
	At     time.Time            `json:"at"`
	Source string               `json:"source"`
	Result engine.ArrangeResult `json:"result"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool              `json:"daemon_running"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Tools         engine.ToolStatus `json:"tools"`
	LastArrange   *LastArrange      `json:"last_arrange,omitempty"`
}

// PresetsData is returned by LIST_PRESETS.
type PresetsData struct {
	Presets map[string]tiling.GridPlan `json:"presets"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
