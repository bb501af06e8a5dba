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

// Package pending implements the in-flight request table of the connector.
//
// Each request sent with a non-zero sequence number is tracked until exactly
// one of four outcomes fulfills it: the correlated response arrives, the
// response carries an application error code, the per-request timer fires, or
// the connection is torn down. The table arbitrates the timeout/response race
// with an atomic take-and-remove, so a completion function is never invoked
// twice.
//
// The table does not know about transports or connection state: the owning
// client supplies the failure it wants delivered on timeout through a
// capability function given at construction, and the failure delivered on
// teardown through CancelAll.
package pending

import (
	"time"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	libpkt "github.com/stagelink/connector/packet"
)

// FuncComplete is the completion handle of one tracked request. It is called
// exactly once. On success err is nil and rsp is the correlated response. On
// an application error both are set: err wraps ErrorResponse and rsp carries
// the server error code. On timeout, send failure or teardown only err is set.
type FuncComplete func(rsp libpkt.Packet, err liberr.Error)

// FuncTimeout builds the failure delivered when a tracked request's timer
// fires. Supplied by the owning client so the table stays free of the public
// error surface.
type FuncTimeout func() liberr.Error

// FuncElapsed observes the time between tracking a request and completing it.
// Only successful and application-error completions report; timeouts and
// cancellations do not.
type FuncElapsed func(req libpkt.Packet, seq uint16, elapsed time.Duration)

// Table correlates responses with in-flight requests by sequence number.
// All operations are safe for concurrent use.
type Table interface {
	// AllocSeq returns the next sequence value. The counter is 16 bits wide,
	// wraps around and never issues the reserved value 0.
	AllocSeq() uint16

	// Track inserts a pending request. It must be called before the request
	// bytes are handed to the transport, so a response can never arrive and
	// find nothing to complete. A one-shot timer armed with the given timeout
	// delivers the FuncTimeout failure if it wins the race against the
	// response; a timeout of 0 disables the timer.
	Track(seq uint16, req libpkt.Packet, timeout time.Duration, fn FuncComplete) liberr.Error

	// Complete resolves the entry matching the response's sequence number.
	// It reports false for a late response (no matching entry): the caller
	// must drop such packets, not re-classify them as pushes. The entry's
	// timer is cancelled before the completion handle runs. A response with a
	// non-zero error code fulfills the handle as a failure: the response is
	// passed along and the ErrorResponse error names the request identifier,
	// sequence, stage and code; the request packet itself is not attached.
	Complete(rsp libpkt.Packet) bool

	// Fail removes the entry and fulfills it with the given failure. Used on
	// send failure and on caller cancellation. Reports false if the entry was
	// already resolved.
	Fail(seq uint16, err liberr.Error) bool

	// CancelAll fulfills every outstanding entry with the given failure and
	// clears the table, cancelling all timers. Used on disconnect.
	CancelAll(err liberr.Error)

	// Len returns the number of requests currently in flight.
	Len() int

	// RegisterFuncElapsed sets the completion-time observer. Nil unsets it.
	RegisterFuncElapsed(fn FuncElapsed)
}

// New returns an empty table. The fct capability builds the timeout failure;
// if nil, timers deliver a bare ErrorTimeout.
func New(fct FuncTimeout) Table {
	t := &tbl{
		t: libatm.NewMapTyped[uint16, *entry](),
		f: libatm.NewValue[FuncTimeout](),
		e: libatm.NewValue[FuncElapsed](),
	}

	t.f.Store(fct)

	return t
}
