/*
 * MIT License
 *
 * Copyright (c) 2025 StageLink
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package client implements the connector: a long-lived, authenticated,
// bidirectional message channel to a game server, multiplexing
// request/response and server-initiated push messages over one connection.
//
// The client owns its collaborators: the transport (stream or message
// variant, selected by the endpoint), the frame codec, the pending-request
// table, the keep-alive monitor and the callback dispatcher. All public
// methods are safe to call from any thread.
//
// Architecture:
//
//	┌─────────────┐   Send/Request    ┌──────────────┐
//	│   Client    │ ────────────────→ │  Transport   │
//	│  (states,   │                   │ (tcp | wss)  │
//	│   monitor)  │ ←──────────────── │              │
//	└─────────────┘   data / closed   └──────────────┘
//	      │ seq != 0         │ seq == 0
//	┌─────────────┐   ┌──────────────┐
//	│   Pending   │   │  Dispatcher  │→ OnReceive / OnError / ...
//	└─────────────┘   └──────────────┘
//
// Basic usage:
//
//	cfg := client.DefaultConfig("tcp://127.0.0.1:34001")
//	cli, err := client.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer cli.Close()
//
//	if err = cli.Connect(ctx); err != nil {
//	    return err
//	}
//
//	rsp, err := cli.Authenticate(ctx, packet.New("AuthenticateRequest", creds), 0)
//	rsp, err = cli.Request(ctx, packet.New("EchoRequest", body), 0)
//
// In a game engine loop, set UseMainThreadCallback and call MainThreadAction
// once per frame to run queued callbacks and one monitor tick.
package client

import (
	"context"
	"io"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"
	libdsp "github.com/stagelink/connector/dispatch"
	libpkt "github.com/stagelink/connector/packet"
	libpnd "github.com/stagelink/connector/pending"
	libtpt "github.com/stagelink/connector/transport"
)

// FuncConnect fires once per connect attempt with its outcome.
type FuncConnect func(success bool)

// FuncReceive fires once per inbound push packet.
type FuncReceive func(stageID int64, pkt libpkt.Packet)

// FuncError fires when a callback-form request fails: request timeout, send
// failure or a response carrying an application error code.
type FuncError func(stageID int64, code uint16, req libpkt.Packet)

// FuncDisconnect fires once per unintentional link loss with its cause. An
// explicit Disconnect by the caller does not fire it.
type FuncDisconnect func(intentional bool, cause error)

// FuncResponse is the completion callback of the callback-form request
// operations.
type FuncResponse func(rsp libpkt.Packet, err liberr.Error)

// Client is the user-facing connector surface.
type Client interface {
	io.Closer

	// Connect dials the configured endpoint and suspends until the transport
	// is established or fails. Only legal while Disconnected.
	Connect(ctx context.Context) liberr.Error

	// ConnectAsync starts a connect attempt and returns immediately; the
	// outcome is reported through the connect event.
	ConnectAsync(ctx context.Context)

	// Reconnect disconnects if needed, then dials again. The connector never
	// reconnects on its own.
	Reconnect(ctx context.Context) liberr.Error

	// Disconnect closes the link intentionally. It is idempotent and does not
	// fire the disconnect event.
	Disconnect() error

	// IsConnected reports whether the client is in the Connected state.
	IsConnected() bool

	// IsAuthenticated reports whether an authenticate request completed with
	// a zero error code on the current connection.
	IsAuthenticated() bool

	// State returns the current connection state.
	State() State

	// Authenticate sends the given request flagged as authentication and
	// suspends until the response, the timeout or a disconnect. A zero error
	// code response latches IsAuthenticated. Only legal while Connected and
	// not yet authenticated.
	Authenticate(ctx context.Context, req libpkt.Packet, stageID int64) (libpkt.Packet, liberr.Error)

	// AuthenticateWithCallback is the callback form of Authenticate.
	AuthenticateWithCallback(req libpkt.Packet, stageID int64, fn FuncResponse) liberr.Error

	// Send transmits a fire-and-forget packet (sequence 0). No response is
	// expected and none is correlated.
	Send(req libpkt.Packet, stageID int64) liberr.Error

	// Request transmits a correlated request and suspends until the response,
	// the timeout or a disconnect. An earlier context deadline overrides the
	// configured request timeout; cancelling the context abandons the wait
	// and fails the pending entry.
	Request(ctx context.Context, req libpkt.Packet, stageID int64) (libpkt.Packet, liberr.Error)

	// RequestWithCallback is the callback form of Request: the completion is
	// delivered through fn and failures additionally fire the error event.
	RequestWithCallback(req libpkt.Packet, stageID int64, fn FuncResponse) liberr.Error

	// MainThreadAction drains queued callbacks in FIFO order on the calling
	// goroutine and runs one tick of the keep-alive monitor. The application
	// must call it periodically when UseMainThreadCallback is set.
	MainThreadAction()

	// RegisterFuncConnect sets the connect event subscriber.
	RegisterFuncConnect(fn FuncConnect)

	// RegisterFuncReceive sets the push packet subscriber.
	RegisterFuncReceive(fn FuncReceive)

	// RegisterFuncError sets the request failure subscriber.
	RegisterFuncError(fn FuncError)

	// RegisterFuncDisconnect sets the link loss subscriber.
	RegisterFuncDisconnect(fn FuncDisconnect)

	// RegisterLogger sets the logger provider used by the client.
	RegisterLogger(fn liblog.FuncLog)
}

// New returns a client for the given configuration. The configuration is
// validated and fixed for the lifetime of the client.
func New(cfg Config) (Client, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &cli{
		cfg: cfg,
		dec: libpkt.NewDecoder(),
		dsp: libdsp.New(cfg.UseMainThreadCallback),
		log: libatm.NewValue[liblog.FuncLog](),
		tpt: libatm.NewValue[libtpt.Transport](),
		tck: libatm.NewValue[chan struct{}](),
		fCo: libatm.NewValue[FuncConnect](),
		fRv: libatm.NewValue[FuncReceive](),
		fEr: libatm.NewValue[FuncError](),
		fDc: libatm.NewValue[FuncDisconnect](),
	}

	c.pnd = libpnd.New(func() liberr.Error {
		return ErrorRequestTimeout.Error(nil)
	})

	if cfg.EnableLoggingResponseTime {
		c.pnd.RegisterFuncElapsed(c.logElapsed)
	}

	// nothing to tear down until the first connect succeeds
	c.dwn.Store(true)

	return c, nil
}

var _ Client = &cli{}
