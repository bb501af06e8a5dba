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

package client

import (
	libpkt "github.com/stagelink/connector/packet"
)

func (o *cli) RegisterFuncConnect(fn FuncConnect) {
	o.fCo.Store(fn)
}

func (o *cli) RegisterFuncReceive(fn FuncReceive) {
	o.fRv.Store(fn)
}

func (o *cli) RegisterFuncError(fn FuncError) {
	o.fEr.Store(fn)
}

func (o *cli) RegisterFuncDisconnect(fn FuncDisconnect) {
	o.fDc.Store(fn)
}

// Events run through the dispatcher so the delivery mode (inline on the I/O
// worker, or queued for MainThreadAction) is the same for all of them.

func (o *cli) fireConnect(success bool) {
	if fn := o.fCo.Load(); fn != nil {
		o.dsp.Call(func() {
			fn(success)
		})
	}
}

func (o *cli) fireReceive(stageID int64, pkt libpkt.Packet) {
	if fn := o.fRv.Load(); fn != nil {
		o.dsp.Call(func() {
			fn(stageID, pkt)
		})
	}
}

func (o *cli) fireError(stageID int64, code uint16, req libpkt.Packet) {
	if fn := o.fEr.Load(); fn != nil {
		o.dsp.Call(func() {
			fn(stageID, code, req)
		})
	}
}

func (o *cli) fireDisconnect(intentional bool, cause error) {
	if fn := o.fDc.Load(); fn != nil {
		o.dsp.Call(func() {
			fn(intentional, cause)
		})
	}
}
