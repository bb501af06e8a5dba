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
	"sync/atomic"
	"time"

	libatm "github.com/nabbar/golib/atomic"
	liblog "github.com/nabbar/golib/logger"
	libdsp "github.com/stagelink/connector/dispatch"
	libpkt "github.com/stagelink/connector/packet"
	libpnd "github.com/stagelink/connector/pending"
	libtpt "github.com/stagelink/connector/transport"
)

type cli struct {
	cfg Config
	dec *libpkt.Decoder
	dsp libdsp.Dispatcher
	pnd libpnd.Table

	log libatm.Value[liblog.FuncLog]
	tpt libatm.Value[libtpt.Transport]
	tck libatm.Value[chan struct{}] // stops the background monitor loop

	stt atomic.Int32 // State
	ath atomic.Bool  // authenticated latch, cleared on every Disconnected entry
	itl atomic.Bool  // disconnect requested by the caller
	dwn atomic.Bool  // teardown already done for the current connection
	web atomic.Bool  // current transport is the message variant
	rcv atomic.Int64 // last inbound bytes, unix nanoseconds
	bet atomic.Int64 // last heartbeat emission, unix nanoseconds

	fCo libatm.Value[FuncConnect]
	fRv libatm.Value[FuncReceive]
	fEr libatm.Value[FuncError]
	fDc libatm.Value[FuncDisconnect]
}

func (o *cli) transport() libtpt.Transport {
	return o.tpt.Load()
}

func (o *cli) logger() liblog.Logger {
	if f := o.log.Load(); f != nil {
		if l := f(); l != nil {
			return l
		}
	}

	return liblog.GetDefault()
}

func (o *cli) RegisterLogger(fn liblog.FuncLog) {
	o.log.Store(fn)
}

func (o *cli) IsConnected() bool {
	return o.state() == StateConnected
}

func (o *cli) IsAuthenticated() bool {
	return o.ath.Load()
}

func (o *cli) State() State {
	return o.state()
}

func (o *cli) logElapsed(req libpkt.Packet, seq uint16, elapsed time.Duration) {
	o.logger().Info("request '%s' seq '%d' completed in %s", nil, req.MsgID, seq, elapsed)
}
