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

package transport

import (
	"net/url"
	"strings"

	liberr "github.com/nabbar/golib/errors"
)

// Scheme selects the transport variant and its TLS wrapping.
type Scheme uint8

const (
	SchemeTCP Scheme = iota
	SchemeTLS
	SchemeWS
	SchemeWSS
)

// IsWebsocket reports whether the scheme selects the message-oriented
// variant.
func (s Scheme) IsWebsocket() bool {
	return s == SchemeWS || s == SchemeWSS
}

// IsSecure reports whether the scheme wraps the transport in TLS.
func (s Scheme) IsSecure() bool {
	return s == SchemeTLS || s == SchemeWSS
}

func (s Scheme) String() string {
	switch s {
	case SchemeTCP:
		return "tcp"
	case SchemeTLS:
		return "tls"
	case SchemeWS:
		return "ws"
	case SchemeWSS:
		return "wss"
	}

	return ""
}

// Endpoint is one parsed remote address.
type Endpoint struct {
	Scheme Scheme
	Host   string // host:port
	Path   string // websocket request path, empty otherwise
}

// Addr returns the dialable host:port.
func (e Endpoint) Addr() string {
	return e.Host
}

// Hostname returns the host without the port, used as the default TLS server
// name.
func (e Endpoint) Hostname() string {
	if i := strings.LastIndex(e.Host, ":"); i >= 0 {
		return e.Host[:i]
	}

	return e.Host
}

// URL returns the websocket dial URL for the message variant.
func (e Endpoint) URL() string {
	u := url.URL{
		Scheme: e.Scheme.String(),
		Host:   e.Host,
		Path:   e.Path,
	}

	return u.String()
}

func (e Endpoint) String() string {
	if e.Scheme.IsWebsocket() {
		return e.URL()
	}

	return e.Scheme.String() + "://" + e.Host
}

// ParseEndpoint parses one of the accepted URI forms:
//
//	tcp://host:port   tls://host:port
//	ws://host[:port][/path]   wss://host[:port][/path]
func ParseEndpoint(uri string) (Endpoint, liberr.Error) {
	if uri == "" {
		return Endpoint{}, ErrorParamsEmpty.Error(nil)
	}

	u, e := url.Parse(uri)
	if e != nil {
		return Endpoint{}, ErrorEndpointParser.Error(e)
	} else if u.Host == "" {
		return Endpoint{}, ErrorEndpointParser.Error(nil)
	}

	var s Scheme

	switch strings.ToLower(u.Scheme) {
	case "tcp":
		s = SchemeTCP
	case "tls":
		s = SchemeTLS
	case "ws":
		s = SchemeWS
	case "wss":
		s = SchemeWSS
	default:
		return Endpoint{}, ErrorEndpointScheme.Error(nil)
	}

	if !s.IsWebsocket() && u.Port() == "" {
		return Endpoint{}, ErrorEndpointParser.Error(nil)
	}

	return Endpoint{
		Scheme: s,
		Host:   u.Host,
		Path:   u.Path,
	}, nil
}
