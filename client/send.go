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
	"context"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libpkt "github.com/stagelink/connector/packet"
	libpnd "github.com/stagelink/connector/pending"
)

func (o *cli) Send(req libpkt.Packet, stageID int64) liberr.Error {
	if err := o.gate(req, false); err != nil {
		return err
	}

	pkt := req
	pkt.MsgSeq = 0
	pkt.StageID = stageID

	buf, err := libpkt.Encode(pkt)
	if err != nil {
		return err
	}

	tpt := o.transport()
	if tpt == nil {
		return ErrorDisconnected.Error(nil)
	}

	return tpt.Send(buf)
}

func (o *cli) Request(ctx context.Context, req libpkt.Packet, stageID int64) (libpkt.Packet, liberr.Error) {
	return o.await(ctx, req, stageID, false)
}

func (o *cli) RequestWithCallback(req libpkt.Packet, stageID int64, fn FuncResponse) liberr.Error {
	return o.callback(req, stageID, false, fn)
}

func (o *cli) Authenticate(ctx context.Context, req libpkt.Packet, stageID int64) (libpkt.Packet, liberr.Error) {
	return o.await(ctx, req, stageID, true)
}

func (o *cli) AuthenticateWithCallback(req libpkt.Packet, stageID int64, fn FuncResponse) liberr.Error {
	return o.callback(req, stageID, true, fn)
}

// gate applies the state machine rules shared by every application send:
// connected only, no reserved identifiers, and the optional authentication
// gate. Authentication requests are legal only before the latch is set.
func (o *cli) gate(req libpkt.Packet, isAuth bool) liberr.Error {
	if o.state() != StateConnected {
		return ErrorDisconnected.Error(nil)
	}

	if libpkt.IsReserved(req.MsgID) {
		return ErrorReservedMsgID.Error(nil)
	}

	if isAuth {
		if o.IsAuthenticated() {
			return ErrorInvalidState.Error(nil)
		}
	} else if o.cfg.RequireAuth && !o.IsAuthenticated() {
		return ErrorUnauthenticated.Error(nil)
	}

	return nil
}

// request gates, tracks and transmits one correlated request. Once the entry
// is tracked every outcome, send failure included, is delivered through the
// completion handle exactly once; errors returned here happen before
// tracking.
func (o *cli) request(req libpkt.Packet, stageID int64, isAuth bool, timeout time.Duration, fn libpnd.FuncComplete) (uint16, liberr.Error) {
	if fn == nil {
		return 0, ErrorParamsEmpty.Error(nil)
	}

	if err := o.gate(req, isAuth); err != nil {
		return 0, err
	}

	tpt := o.transport()
	if tpt == nil {
		return 0, ErrorDisconnected.Error(nil)
	}

	seq := o.pnd.AllocSeq()

	pkt := req
	pkt.MsgSeq = seq
	pkt.StageID = stageID

	buf, err := libpkt.Encode(pkt)
	if err != nil {
		return 0, err
	}

	wrap := fn
	if isAuth {
		wrap = func(rsp libpkt.Packet, e liberr.Error) {
			if e == nil {
				o.ath.Store(true)
			}
			fn(rsp, e)
		}
	}

	// tracked before the bytes leave, so the response cannot outrun the entry
	if err = o.pnd.Track(seq, pkt, timeout, wrap); err != nil {
		return 0, err
	}

	if err = tpt.Send(buf); err != nil {
		o.pnd.Fail(seq, ErrorDisconnected.Error(err))
	}

	return seq, nil
}

// await is the future form: it suspends until the completion handle resolves
// or the context is done. Cancelling a request whose completion already
// happened returns that completion, not a cancellation.
func (o *cli) await(ctx context.Context, req libpkt.Packet, stageID int64, isAuth bool) (libpkt.Packet, liberr.Error) {
	type result struct {
		p libpkt.Packet
		e liberr.Error
	}

	ch := make(chan result, 1)

	seq, err := o.request(req, stageID, isAuth, o.timeout(ctx), func(rsp libpkt.Packet, e liberr.Error) {
		ch <- result{p: rsp, e: e}
	})

	if err != nil {
		return libpkt.Packet{}, err
	}

	select {
	case r := <-ch:
		return r.p, r.e

	case <-ctx.Done():
		if o.pnd.Fail(seq, ErrorCancelled.Error(ctx.Err())) {
			<-ch
			return libpkt.Packet{}, ErrorCancelled.Error(ctx.Err())
		}

		r := <-ch
		return r.p, r.e
	}
}

// callback is the callback form: the completion runs through the dispatcher
// and failures additionally fire the error event.
func (o *cli) callback(req libpkt.Packet, stageID int64, isAuth bool, fn FuncResponse) liberr.Error {
	_, err := o.request(req, stageID, isAuth, o.timeout(context.Background()), func(rsp libpkt.Packet, e liberr.Error) {
		if e != nil {
			o.fireError(stageID, respCode(rsp, e), req)
		}

		if fn != nil {
			o.dsp.Call(func() {
				fn(rsp, e)
			})
		}
	})

	return err
}

// timeout resolves the per-operation timeout: the configured default, or the
// context deadline when it is earlier.
func (o *cli) timeout(ctx context.Context) time.Duration {
	d := o.cfg.RequestTimeout.Time()

	if dl, ok := ctx.Deadline(); ok {
		if r := time.Until(dl); d == 0 || r < d {
			d = r
		}
	}

	return d
}

// respCode picks the application error code of a failed response, or the
// failure's own code otherwise.
func respCode(rsp libpkt.Packet, e liberr.Error) uint16 {
	if rsp.ErrorCode != 0 {
		return rsp.ErrorCode
	}

	return e.Code()
}
