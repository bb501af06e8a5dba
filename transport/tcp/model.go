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

package tcp

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	libptc "github.com/nabbar/golib/network/protocol"
	libtpt "github.com/stagelink/connector/transport"
)

const chunkSize = 32 << 10

type cli struct {
	m sync.Mutex // serializes writes; two sends never interleave on the wire
	e libtpt.Endpoint
	c libtpt.Config

	n atomic.Value // net.Conn
	s atomic.Bool  // closed signal already fired for this connection
	d libatm.Value[libtpt.FuncData]
	f libatm.Value[libtpt.FuncClosed]
}

func (o *cli) conn() net.Conn {
	if i := o.n.Load(); i == nil {
		return nil
	} else if c, ok := i.(net.Conn); !ok || c == nil {
		return nil
	} else {
		return c
	}
}

func (o *cli) Connect(ctx context.Context) liberr.Error {
	if o.IsConnected() {
		return libtpt.ErrorAlreadyConnected.Error(nil)
	}

	// the timeout bounds the dial and the TLS handshake together
	if t := o.c.DialTimeout.Time(); t > 0 {
		var cnl context.CancelFunc
		ctx, cnl = context.WithTimeout(ctx, t)
		defer cnl()
	}

	dia := net.Dialer{}

	raw, err := dia.DialContext(ctx, libptc.NetworkTCP.Code(), o.e.Addr())
	if err != nil {
		return libtpt.ErrorDial.Error(err)
	}

	con := raw

	if cfg := o.c.TLSConfig(o.e); cfg != nil {
		tlc := tls.Client(raw, cfg)

		if err = tlc.HandshakeContext(ctx); err != nil {
			_ = raw.Close()
			return libtpt.ErrorDial.Error(err)
		}

		con = tlc
	}

	o.s.Store(false)
	o.n.Store(con)

	go o.readLoop(con)

	return nil
}

// readLoop is the single reader of the connection. It exits when the
// connection is closed, locally or by the peer, and fires the closed signal
// exactly once.
func (o *cli) readLoop(con net.Conn) {
	buf := make([]byte, chunkSize)

	for {
		n, err := con.Read(buf)

		if n > 0 {
			if fn := o.d.Load(); fn != nil {
				p := make([]byte, n)
				copy(p, buf[:n])
				fn(p)
			}
		}

		if err != nil {
			o.closed(err)
			return
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

	for len(p) > 0 {
		n, err := con.Write(p)
		if err != nil {
			return libtpt.ErrorWrite.Error(err)
		}

		p = p[n:]
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

	// claim the signal before closing, so the read loop woken by the close
	// cannot report its own error in place of the nil local cause
	own := o.s.CompareAndSwap(false, true)
	err := con.Close()

	if own {
		if fn := o.f.Load(); fn != nil {
			fn(nil)
		}
	}

	return err
}

// closed fires the close signal once per established connection. A local
// Close claims the signal first, so it reports a nil cause even though the
// read loop then returns an error.
func (o *cli) closed(err error) {
	if !o.s.CompareAndSwap(false, true) {
		return
	}

	if fn := o.f.Load(); fn != nil {
		fn(err)
	}
}
