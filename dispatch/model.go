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

package dispatch

import "sync"

type dsp struct {
	m sync.Mutex
	q []func()
	b bool // queued mode
}

func (o *dsp) Call(fn func()) {
	if fn == nil {
		return
	}

	if !o.b {
		fn()
		return
	}

	o.m.Lock()
	o.q = append(o.q, fn)
	o.m.Unlock()
}

func (o *dsp) Drain() int {
	if !o.b {
		return 0
	}

	// swap the queue out so tasks run outside the lock and may enqueue more
	o.m.Lock()
	q := o.q
	o.q = nil
	o.m.Unlock()

	for _, fn := range q {
		fn()
	}

	return len(q)
}

func (o *dsp) Len() int {
	o.m.Lock()
	defer o.m.Unlock()

	return len(o.q)
}

func (o *dsp) Discard() int {
	o.m.Lock()
	defer o.m.Unlock()

	n := len(o.q)
	o.q = nil

	return n
}

func (o *dsp) IsQueued() bool {
	return o.b
}
