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

// Package dispatch implements the callback delivery model of the connector.
//
// In immediate mode each callback runs synchronously on the I/O worker that
// produced it. In queued mode callbacks are pushed onto a FIFO and run only
// when the application drains the queue from its chosen thread, typically a
// game engine's frame loop. The mode is fixed at construction: mixing delivery
// modes per event is not supported.
package dispatch

import "sync"

// Dispatcher delivers zero-argument callback tasks. All methods are safe for
// concurrent use; producers never block on consumers.
type Dispatcher interface {
	// Call runs the task inline (immediate mode) or appends it to the queue
	// (queued mode). A nil task is ignored.
	Call(fn func())

	// Drain runs every queued task in FIFO order on the calling goroutine and
	// returns how many ran. In immediate mode it is a no-op returning 0.
	Drain() int

	// Len returns the number of tasks currently queued.
	Len() int

	// Discard drops every queued task without running it and returns how many
	// were dropped.
	Discard() int

	// IsQueued reports whether the dispatcher runs in queued mode.
	IsQueued() bool
}

// New returns a Dispatcher. With queued true, tasks wait for Drain; otherwise
// Call runs them inline.
func New(queued bool) Dispatcher {
	return &dsp{
		m: sync.Mutex{},
		b: queued,
	}
}
