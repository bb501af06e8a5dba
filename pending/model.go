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

package pending

import (
	"fmt"
	"sync/atomic"
	"time"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	libpkt "github.com/stagelink/connector/packet"
)

// entry is one in-flight request. It is removed from the table by exactly one
// of the response path, the timer, a send failure or CancelAll; the remover
// owns the completion.
type entry struct {
	req libpkt.Packet
	fn  FuncComplete
	tmr *time.Timer
	snt time.Time
}

type tbl struct {
	s atomic.Uint32 // sequence counter, masked to 16 bits
	t libatm.MapTyped[uint16, *entry]
	f libatm.Value[FuncTimeout]
	e libatm.Value[FuncElapsed]
}

func (o *tbl) AllocSeq() uint16 {
	for {
		if s := uint16(o.s.Add(1)); s != 0 {
			return s
		}
	}
}

func (o *tbl) Track(seq uint16, req libpkt.Packet, timeout time.Duration, fn FuncComplete) liberr.Error {
	if seq == 0 || fn == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	ent := &entry{
		req: req,
		fn:  fn,
		snt: time.Now(),
	}

	if _, loaded := o.t.LoadOrStore(seq, ent); loaded {
		return ErrorSeqInFlight.Error(nil)
	}

	if timeout > 0 {
		ent.tmr = time.AfterFunc(timeout, func() {
			o.expire(seq, ent)
		})
	}

	return nil
}

// expire resolves a timer firing. The take-and-remove decides the race: if
// the response already removed the entry, the timer is a no-op.
func (o *tbl) expire(seq uint16, ent *entry) {
	if !o.t.CompareAndDelete(seq, ent) {
		return
	}

	ent.fn(libpkt.Packet{}, o.timeoutError())
}

func (o *tbl) timeoutError() liberr.Error {
	if f := o.f.Load(); f != nil {
		if e := f(); e != nil {
			return e
		}
	}

	return ErrorTimeout.Error(nil)
}

func (o *tbl) Complete(rsp libpkt.Packet) bool {
	ent, ok := o.t.LoadAndDelete(rsp.MsgSeq)
	if !ok || ent == nil {
		return false
	}

	if ent.tmr != nil {
		ent.tmr.Stop()
	}

	o.observe(ent, rsp.MsgSeq)

	if rsp.ErrorCode != 0 {
		//nolint #goerr113
		ent.fn(rsp, ErrorResponse.Error(fmt.Errorf("request '%s' seq '%d' stage '%d' failed with code '%d'", ent.req.MsgID, rsp.MsgSeq, rsp.StageID, rsp.ErrorCode)))
	} else {
		ent.fn(rsp, nil)
	}

	return true
}

func (o *tbl) Fail(seq uint16, err liberr.Error) bool {
	ent, ok := o.t.LoadAndDelete(seq)
	if !ok || ent == nil {
		return false
	}

	if ent.tmr != nil {
		ent.tmr.Stop()
	}

	ent.fn(libpkt.Packet{}, err)
	return true
}

func (o *tbl) CancelAll(err liberr.Error) {
	o.t.Range(func(seq uint16, _ *entry) bool {
		if ent, ok := o.t.LoadAndDelete(seq); ok && ent != nil {
			if ent.tmr != nil {
				ent.tmr.Stop()
			}
			ent.fn(libpkt.Packet{}, err)
		}
		return true
	})
}

func (o *tbl) Len() int {
	var n int

	o.t.Range(func(_ uint16, _ *entry) bool {
		n++
		return true
	})

	return n
}

func (o *tbl) RegisterFuncElapsed(fn FuncElapsed) {
	o.e.Store(fn)
}

func (o *tbl) observe(ent *entry, seq uint16) {
	if f := o.e.Load(); f != nil {
		f(ent.req, seq, time.Since(ent.snt))
	}
}
