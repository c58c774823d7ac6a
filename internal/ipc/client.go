package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/windows"
)

// DefaultClientTimeout bounds a whole request. Arrangements run several
// tool invocations per window, so it is generous.
const DefaultClientTimeout = 30 * time.Second

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := SocketPath()
	if err != nil {
		// sendRequest surfaces the failure as a connection error.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for a specific socket.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultClientTimeout,
	}
}

// WithTimeout returns a copy of c using timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	cp := *c
	cp.timeout = timeout
	return &cp
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out.
func (c *Client) call(command CommandType, payload, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// ListWindows lists terminal and file manager windows plus appNames.
func (c *Client) ListWindows(appNames []string) ([]windows.Record, error) {
	var records []windows.Record
	if err := c.call(CommandListWindows, ListWindowsPayload{AppNames: appNames}, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []windows.Record{}
	}
	return records, nil
}

// ActivateWindow brings a window to the front.
func (c *Client) ActivateWindow(id string) (bool, error) {
	var data ActivateData
	if err := c.call(CommandActivateWindow, WindowPayload{ID: id}, &data); err != nil {
		return false, err
	}
	return data.Success, nil
}

// CloseWindow asks the window manager to close a window.
func (c *Client) CloseWindow(id string) (engine.CloseResult, error) {
	var res engine.CloseResult
	err := c.call(CommandCloseWindow, WindowPayload{ID: id}, &res)
	return res, err
}

// OpenTerminal opens a terminal in path.
func (c *Client) OpenTerminal(path string) (engine.OpenResult, error) {
	var res engine.OpenResult
	err := c.call(CommandOpenTerminal, OpenPayload{Path: path}, &res)
	return res, err
}

// OpenFileManager opens a file manager on path.
func (c *Client) OpenFileManager(path string) (engine.OpenResult, error) {
	var res engine.OpenResult
	err := c.call(CommandOpenFileManager, OpenPayload{Path: path}, &res)
	return res, err
}

// OpenApp starts command in path.
func (c *Client) OpenApp(command, path string) (engine.OpenResult, error) {
	var res engine.OpenResult
	err := c.call(CommandOpenApp, OpenPayload{App: command, Path: path}, &res)
	return res, err
}

// GetDisplays retrieves the display topology.
func (c *Client) GetDisplays() ([]platform.Display, error) {
	var displays []platform.Display
	if err := c.call(CommandGetDisplays, nil, &displays); err != nil {
		return nil, err
	}
	return displays, nil
}

// ArrangeGrid asks the daemon to arrange windows.
func (c *Client) ArrangeGrid(appNames []string, opts engine.Options) (engine.ArrangeResult, error) {
	var res engine.ArrangeResult
	err := c.call(CommandArrangeGrid, ArrangePayload{AppNames: appNames, Options: opts}, &res)
	return res, err
}

// ListPresets retrieves the configured grid presets.
func (c *Client) ListPresets() (*PresetsData, error) {
	var data PresetsData
	if err := c.call(CommandListPresets, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
