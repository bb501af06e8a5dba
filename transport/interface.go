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

// Package transport defines the minimal transport abstraction the connector
// consumes, and the endpoint addressing shared by its implementations.
//
// Two variants exist under this package:
//   - transport/tcp: byte-oriented stream, plain or TLS wrapped. Receive
//     yields arbitrary-sized chunks; the frame codec re-frames.
//   - transport/websocket: message-oriented, plain or TLS wrapped. Receive
//     yields whole binary messages, one protocol frame per message.
//
// A transport is a dumb pipe: it dials, writes whole buffers without
// interleaving, pushes received bytes upward and signals the close cause
// exactly once. Everything protocol-shaped lives above it.
package transport

import (
	"context"
	"io"

	liberr "github.com/nabbar/golib/errors"
)

// FuncData receives inbound bytes: an arbitrary chunk for the stream variant,
// one whole message for the message variant. The slice is owned by the callee.
type FuncData func(p []byte)

// FuncClosed signals that the transport is no longer usable. It fires exactly
// once per established connection, with a nil err on a locally requested
// close.
type FuncClosed func(err error)

// Transport is the capability set the connector needs from a connection.
// Implementations serialize writes: the bytes of two concurrent Send calls
// never interleave on the wire, and a send buffer stays owned by the
// transport until the underlying write returns.
type Transport interface {
	io.Closer

	// Connect dials the remote endpoint. It suspends until the transport is
	// usable or the context is done. Calling Connect on a connected transport
	// is an error.
	Connect(ctx context.Context) liberr.Error

	// Send writes one whole buffer. It returns once the buffer is handed to
	// the operating system or fails; after either outcome the caller may
	// reuse the slice.
	Send(p []byte) liberr.Error

	// IsConnected reports whether the transport currently holds an
	// established connection.
	IsConnected() bool

	// RegisterFuncData sets the inbound bytes callback. It must be set before
	// Connect; a nil value drops inbound data.
	RegisterFuncData(fn FuncData)

	// RegisterFuncClosed sets the close signal callback. It must be set
	// before Connect.
	RegisterFuncClosed(fn FuncClosed)
}
