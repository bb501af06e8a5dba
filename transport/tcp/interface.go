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

// Package tcp implements the byte-oriented stream transport, plain TCP or TLS
// wrapped depending on the endpoint scheme. Received bytes are pushed upward
// in arbitrary-sized chunks; the frame codec above re-frames them.
package tcp

import (
	"sync"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	libtpt "github.com/stagelink/connector/transport"
)

// New returns a stream transport for the given endpoint. The endpoint scheme
// must be tcp or tls.
func New(e libtpt.Endpoint, cfg libtpt.Config) (libtpt.Transport, liberr.Error) {
	if e.Scheme.IsWebsocket() {
		return nil, libtpt.ErrorEndpointScheme.Error(nil)
	} else if e.Host == "" {
		return nil, libtpt.ErrorParamsEmpty.Error(nil)
	}

	return &cli{
		m: sync.Mutex{},
		e: e,
		c: cfg,
		d: libatm.NewValue[libtpt.FuncData](),
		f: libatm.NewValue[libtpt.FuncClosed](),
	}, nil
}
