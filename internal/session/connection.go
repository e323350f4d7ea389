//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection is the narrow surface the hub needs from a real-time
// connection; tests substitute a fake, production code a *WSConnection.
type Connection interface {
	Send(msg Message) error
	Close(code int, reason string) error
}

// WSConnection adapts a *websocket.Conn. Writes are serialized with a mutex
// since gorilla/websocket forbids concurrent writers on one connection.
type WSConnection struct {
	mu             sync.Mutex
	conn           *websocket.Conn
	writeWait      time.Duration
}

// NewWSConnection wraps conn. writeWait bounds every WriteMessage call,
// normally config.Settings.Server.WriteWaitSeconds.
func NewWSConnection(conn *websocket.Conn, writeWait time.Duration) *WSConnection {
	return &WSConnection{conn: conn, writeWait: writeWait}
}

// Send marshals msg to JSON and writes it as one text frame.
func (c *WSConnection) Send(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close sends a close frame with code and reason, then closes the socket.
func (c *WSConnection) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	deadline := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteMessage(websocket.CloseMessage, deadline)
	return c.conn.Close()
}

// Close codes used by the hub, matching the RFC 6455 ranges the spec names
// by description ("normal", "policy violation").
const (
	CloseNormal          = websocket.CloseNormalClosure
	ClosePolicyViolation = websocket.ClosePolicyViolation
)
