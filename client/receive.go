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

	liberr "github.com/nabbar/golib/errors"
	libpkt "github.com/stagelink/connector/packet"
)

// onData runs on the transport's read loop. Any inbound bytes refresh the
// liveness clock, heartbeat echoes included.
func (o *cli) onData(chunk []byte) {
	o.rcv.Store(time.Now().UnixNano())

	var (
		err  liberr.Error
		pkts []libpkt.Packet
	)

	if o.web.Load() {
		var pkt libpkt.Packet

		if pkt, err = libpkt.DecodeMessage(chunk); err == nil {
			pkts = append(pkts, pkt)
		}
	} else {
		pkts, err = o.dec.Push(chunk)
	}

	for _, pkt := range pkts {
		o.handlePacket(pkt)
	}

	if err != nil {
		// protocol violation: no resynchronization, tear the connection down
		o.logger().Error("inbound protocol violation: %v", nil, err)
		o.teardown(false, ErrorProtocol.Error(err))
	}
}

// handlePacket classifies one inbound packet: heartbeats vanish here,
// correlated responses resolve their pending entry, everything else is a push
// delivered to the receive subscriber. A response without a matching entry is
// a late response and is dropped, never re-classified as a push.
func (o *cli) handlePacket(pkt libpkt.Packet) {
	if pkt.IsHeartbeat() {
		return
	}

	if pkt.MsgSeq != 0 {
		if !o.pnd.Complete(pkt) {
			o.logger().Debug("late response '%s' seq '%d' dropped", nil, pkt.MsgID, pkt.MsgSeq)
		}
		return
	}

	o.fireReceive(pkt.StageID, pkt)
}
