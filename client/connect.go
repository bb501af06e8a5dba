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
	libtpt "github.com/stagelink/connector/transport"
	tptsck "github.com/stagelink/connector/transport/tcp"
	tptwsk "github.com/stagelink/connector/transport/websocket"
)

func (o *cli) Connect(ctx context.Context) liberr.Error {
	return o.doConnect(ctx, StateDisconnected)
}

func (o *cli) ConnectAsync(ctx context.Context) {
	go func() {
		_ = o.Connect(ctx)
	}()
}

func (o *cli) Reconnect(ctx context.Context) liberr.Error {
	_ = o.Disconnect()

	if !o.casState(StateDisconnected, StateReconnecting) {
		return ErrorInvalidState.Error(nil)
	}

	return o.doConnect(ctx, StateReconnecting)
}

func (o *cli) doConnect(ctx context.Context, from State) liberr.Error {
	if !o.casState(from, StateConnecting) {
		return ErrorInvalidState.Error(nil)
	}

	o.itl.Store(false)

	end, err := o.cfg.remote()
	if err != nil {
		o.setState(StateDisconnected)
		return err
	}

	var tpt libtpt.Transport

	if end.Scheme.IsWebsocket() {
		tpt, err = tptwsk.New(end, o.cfg.transport())
	} else {
		tpt, err = tptsck.New(end, o.cfg.transport())
	}

	if err != nil {
		o.setState(StateDisconnected)
		return err
	}

	tpt.RegisterFuncData(o.onData)
	tpt.RegisterFuncClosed(o.onClosed)

	if err = tpt.Connect(ctx); err != nil {
		o.setState(StateDisconnected)
		o.fireConnect(false)
		o.logger().Error("connect to '%s' failed", nil, end.String())
		return ErrorConnection.Error(err)
	}

	now := time.Now().UnixNano()
	o.rcv.Store(now)
	o.bet.Store(now)
	o.ath.Store(false)
	o.web.Store(end.Scheme.IsWebsocket())
	o.dec.Reset()
	o.tpt.Store(tpt)
	o.dwn.Store(false)

	o.setState(StateConnected)

	// a Disconnect issued while the dial was in flight wins
	if o.itl.Load() {
		o.setState(StateDisconnecting)
		o.teardown(true, nil)
		return ErrorDisconnected.Error(nil)
	}

	o.startMonitor()
	o.fireConnect(true)
	o.logger().Info("connected to '%s'", nil, end.String())

	return nil
}

func (o *cli) Disconnect() error {
	o.itl.Store(true)

	if o.state() == StateDisconnected {
		return nil
	}

	o.setState(StateDisconnecting)
	o.teardown(true, nil)

	// no connection was established: nothing to tear down, settle the state
	if o.state() != StateDisconnected {
		o.setState(StateDisconnected)
	}

	return nil
}

func (o *cli) Close() error {
	err := o.Disconnect()
	o.dsp.Discard()

	return err
}

// onClosed handles the transport close signal. A close following an explicit
// Disconnect is already handled; anything else is an unintentional link loss.
func (o *cli) onClosed(cause error) {
	if o.itl.Load() {
		o.teardown(true, cause)
	} else {
		o.teardown(false, ErrorDisconnected.Error(cause))
	}
}

// teardown releases the current connection exactly once: stop the monitor,
// close the transport (unblocking its read loop), fail every pending request,
// clear the authenticated latch and enter Disconnected. It never waits on the
// I/O worker, so it is safe to run from the read loop itself.
func (o *cli) teardown(intentional bool, cause error) {
	if !o.dwn.CompareAndSwap(false, true) {
		return
	}

	o.stopMonitor()

	if t := o.transport(); t != nil {
		_ = t.Close()
	}

	o.pnd.CancelAll(ErrorDisconnected.Error(cause))
	o.ath.Store(false)
	o.dec.Reset()
	o.setState(StateDisconnected)

	if !intentional {
		o.logger().Warning("connection lost: %v", nil, cause)
		o.fireDisconnect(false, cause)
	}
}
