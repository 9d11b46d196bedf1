package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"
)

// ipcRequest is a command written to mpv's IPC socket.
type ipcRequest struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id,omitempty"`
}

// ipcMessage is any line mpv writes back: a reply carries request_id and error,
// an event carries event and, for property changes, the observed name and data.
type ipcMessage struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int64       `json:"request_id"`
	Event     string      `json:"event"`
	Name      string      `json:"name"`
	Reason    string      `json:"reason"`
	FileError string      `json:"file_error"`
}

// CommandError is a well-formed refusal from mpv, such as "property unavailable".
type CommandError struct {
	Reason string
}

func (e *CommandError) Error() string {
	return "mpv error: " + e.Reason
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	dialTimeout  = 500 * time.Millisecond
	readDeadline = 1 * time.Second
	readBufSize  = 4096
	maxLineSize  = 1 << 20
)

// sendCommand sends one command and returns its reply data.
// Transport failures are retried; refusals from mpv are not.
func (m *MPV) sendCommand(command ...interface{}) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(m.socketPath, m.nextID.Add(1), command)
		if err == nil {
			return result, nil
		}

		var refused *CommandError
		if errors.As(err, &refused) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command %v failed after %d attempts: %w", command[0], maxRetries, lastErr)
}

// doSendCommand performs a single request on a fresh connection.
// mpv broadcasts some events to every client, so lines are skipped until the
// reply carrying our request id shows up.
func doSendCommand(socketPath string, id int64, command []interface{}) (interface{}, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if err := writeRequest(conn, ipcRequest{Command: command, RequestID: id}); err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, readBufSize), maxLineSize)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Event != "" || msg.RequestID != id {
			continue
		}

		if msg.Error != "" && msg.Error != "success" {
			return nil, &CommandError{Reason: msg.Error}
		}
		return msg.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, errors.New("read: connection closed before reply")
}

// writeRequest sends one newline-delimited JSON command.
func writeRequest(conn net.Conn, req ipcRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
