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

package websocket

import (
	"context"
	"sync"
	"sync/atomic"

	wsklib "github.com/gorilla/websocket"
	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	libtpt "github.com/stagelink/connector/transport"
)

type cli struct {
	m sync.Mutex // serializes writes; gorilla allows one concurrent writer
	e libtpt.Endpoint
	c libtpt.Config

	n atomic.Value // *wsklib.Conn
	s atomic.Bool  // closed signal already fired for this connection
	d libatm.Value[libtpt.FuncData]
	f libatm.Value[libtpt.FuncClosed]
}

func (o *cli) conn() *wsklib.Conn {
	if i := o.n.Load(); i == nil {
		return nil
	} else if c, ok := i.(*wsklib.Conn); !ok || c == nil {
		return nil
	} else {
		return c
	}
}

func (o *cli) Connect(ctx context.Context) liberr.Error {
	if o.IsConnected() {
		return libtpt.ErrorAlreadyConnected.Error(nil)
	}

	dia := wsklib.Dialer{
		Proxy:           wsklib.DefaultDialer.Proxy,
		TLSClientConfig: o.c.TLSConfig(o.e),
	}

	if t := o.c.DialTimeout.Time(); t > 0 {
		dia.HandshakeTimeout = t
	}

	con, rsp, err := dia.DialContext(ctx, o.e.URL(), nil)
	if rsp != nil && rsp.Body != nil {
		_ = rsp.Body.Close()
	}

	if err != nil {
		return libtpt.ErrorDial.Error(err)
	}

	o.s.Store(false)
	o.n.Store(con)

	go o.readLoop(con)

	return nil
}

// readLoop is the single reader of the connection. Only binary messages are
// delivered; control frames are handled by the websocket library and other
// message types are dropped.
func (o *cli) readLoop(con *wsklib.Conn) {
	for {
		mt, msg, err := con.ReadMessage()

		if err != nil {
			o.closed(err)
			return
		}

		if mt != wsklib.BinaryMessage {
			continue
		}

		if fn := o.d.Load(); fn != nil {
			fn(msg)
		}
	}
}

func (o *cli) Send(p []byte) liberr.Error {
	o.m.Lock()
	defer o.m.Unlock()

	con := o.conn()
	if con == nil {
		return libtpt.ErrorNotConnected.Error(nil)
	}

	if err := con.WriteMessage(wsklib.BinaryMessage, p); err != nil {
		return libtpt.ErrorWrite.Error(err)
	}

	return nil
}

func (o *cli) IsConnected() bool {
	return o.conn() != nil && !o.s.Load()
}

func (o *cli) RegisterFuncData(fn libtpt.FuncData) {
	o.d.Store(fn)
}

func (o *cli) RegisterFuncClosed(fn libtpt.FuncClosed) {
	o.f.Store(fn)
}

func (o *cli) Close() error {
	con := o.conn()
	if con == nil {
		return nil
	}

	// claim the signal before the close handshake, so the read loop woken by
	// the peer's close reply cannot report it in place of the nil local cause
	own := o.s.CompareAndSwap(false, true)

	o.m.Lock()
	_ = con.WriteMessage(wsklib.CloseMessage, wsklib.FormatCloseMessage(wsklib.CloseNormalClosure, ""))
	o.m.Unlock()

	err := con.Close()

	if own {
		if fn := o.f.Load(); fn != nil {
			fn(nil)
		}
	}

	return err
}

func (o *cli) closed(err error) {
	if !o.s.CompareAndSwap(false, true) {
		return
	}

	if fn := o.f.Load(); fn != nil {
		fn(err)
	}
}
