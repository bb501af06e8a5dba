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
	"crypto/tls"

	libtls "github.com/nabbar/golib/certificates"
	libdur "github.com/nabbar/golib/duration"
)

// Config carries the dial options shared by every transport variant.
type Config struct {
	// DialTimeout bounds the connection establishment, handshake included.
	// Zero lets the context alone bound the dial.
	DialTimeout libdur.Duration `mapstructure:"dial_timeout" json:"dial_timeout" yaml:"dial_timeout" toml:"dial_timeout"`

	// TLS is the client TLS configuration applied when the endpoint scheme is
	// secure. The zero value yields a default configuration using the system
	// root store.
	TLS libtls.Config `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`

	// ServerName overrides the TLS server name; the endpoint hostname is used
	// when empty.
	ServerName string `mapstructure:"server_name" json:"server_name" yaml:"server_name" toml:"server_name"`
}

// TLSConfig builds the tls.Config for the given endpoint, or nil when the
// scheme is not secure.
func (c Config) TLSConfig(e Endpoint) *tls.Config {
	if !e.Scheme.IsSecure() {
		return nil
	}

	n := c.ServerName
	if n == "" {
		n = e.Hostname()
	}

	cfg, _ := c.TLS.New()
	return cfg.TlsConfig(n)
}
