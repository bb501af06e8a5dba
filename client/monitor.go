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
	"time"

	libpkt "github.com/stagelink/connector/packet"
)

// tickInterval paces the background monitor. Timeout precision is bounded by
// one tick.
const tickInterval = 250 * time.Millisecond

// startMonitor launches the background monitor loop. In main-thread mode no
// goroutine runs: the monitor is driven by MainThreadAction calls instead.
func (o *cli) startMonitor() {
	if o.cfg.UseMainThreadCallback {
		return
	}

	stop := make(chan struct{})
	o.tck.Store(stop)

	go o.monitorLoop(stop)
}

func (o *cli) stopMonitor() {
	if stop := o.tck.Swap(nil); stop != nil {
		close(stop)
	}
}

func (o *cli) monitorLoop(stop chan struct{}) {
	tic := time.NewTicker(tickInterval)
	defer tic.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tic.C:
			o.tick()
		}
	}
}

func (o *cli) MainThreadAction() {
	o.dsp.Drain()
	o.tick()
}

// tick runs one pass of the keep-alive and idle monitor: emit a heartbeat
// when due, then check dead-peer and authenticated-idle windows against the
// liveness clock.
func (o *cli) tick() {
	if o.state() != StateConnected {
		return
	}

	now := time.Now()

	if !o.cfg.Debug {
		if hbi := o.cfg.HeartbeatInterval.Time(); hbi > 0 && now.Sub(time.Unix(0, o.bet.Load())) > hbi {
			o.bet.Store(now.UnixNano())
			o.sendHeartbeat()
		}
	}

	last := time.Unix(0, o.rcv.Load())

	if hbt := o.cfg.HeartbeatTimeout.Time(); hbt > 0 && now.Sub(last) > hbt {
		o.logger().Warning("no traffic for %s, declaring peer dead", nil, now.Sub(last).Truncate(time.Millisecond))
		o.teardown(false, ErrorHeartbeatTimeout.Error(nil))
		return
	}

	if idl := o.cfg.ConnectionIdleTimeout.Time(); idl > 0 && o.IsAuthenticated() && now.Sub(last) > idl {
		o.logger().Info("idle for %s, closing connection", nil, now.Sub(last).Truncate(time.Millisecond))
		o.teardown(false, ErrorIdleTimeout.Error(nil))
	}
}

func (o *cli) sendHeartbeat() {
	tpt := o.transport()
	if tpt == nil {
		return
	}

	buf, err := libpkt.Encode(libpkt.New(libpkt.MsgIDHeartbeat, nil))
	if err != nil {
		return
	}

	if err = tpt.Send(buf); err != nil {
		o.logger().Debug("heartbeat send failed: %v", nil, err)
	}
}
