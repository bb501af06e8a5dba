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
	"fmt"
	"strings"
	"time"

	libval "github.com/go-playground/validator/v10"
	libtls "github.com/nabbar/golib/certificates"
	libdur "github.com/nabbar/golib/duration"
	liberr "github.com/nabbar/golib/errors"
	libtpt "github.com/stagelink/connector/transport"
)

type Config struct {
	// Endpoint is the remote server address. It accepts either a full URI
	// (tcp://host:port, tls://host:port, ws://host/path, wss://host/path), in
	// which case the scheme overrides UseWebsocket and UseSSL, or a bare
	// host:port combined with those flags.
	Endpoint string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint" toml:"endpoint" validate:"required"`

	// UseWebsocket selects the message-oriented transport for a bare
	// host:port endpoint.
	UseWebsocket bool `mapstructure:"use_websocket" json:"use_websocket" yaml:"use_websocket" toml:"use_websocket"`

	// UseSSL wraps the transport in TLS for a bare host:port endpoint.
	UseSSL bool `mapstructure:"use_ssl" json:"use_ssl" yaml:"use_ssl" toml:"use_ssl"`

	// TLS is the client TLS configuration used when the transport is secure.
	TLS libtls.Config `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`

	// ServerName overrides the TLS server name; the endpoint hostname is used
	// when empty.
	ServerName string `mapstructure:"server_name" json:"server_name" yaml:"server_name" toml:"server_name"`

	// ConnTimeout bounds the connection establishment, handshake included.
	ConnTimeout libdur.Duration `mapstructure:"conn_timeout" json:"conn_timeout" yaml:"conn_timeout" toml:"conn_timeout"`

	// ConnectionIdleTimeout closes an authenticated link after this long
	// without inbound traffic. 0 disables.
	ConnectionIdleTimeout libdur.Duration `mapstructure:"connection_idle_timeout" json:"connection_idle_timeout" yaml:"connection_idle_timeout" toml:"connection_idle_timeout"`

	// HeartbeatInterval is the keep-alive emission period. 0 disables
	// heartbeat generation.
	HeartbeatInterval libdur.Duration `mapstructure:"heartbeat_interval" json:"heartbeat_interval" yaml:"heartbeat_interval" toml:"heartbeat_interval"`

	// HeartbeatTimeout declares the link dead after this long without any
	// inbound traffic. 0 disables dead-peer detection.
	HeartbeatTimeout libdur.Duration `mapstructure:"heartbeat_timeout" json:"heartbeat_timeout" toml:"heartbeat_timeout" yaml:"heartbeat_timeout"`

	// RequestTimeout is the default per-request timeout. 0 disables.
	RequestTimeout libdur.Duration `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`

	// UseMainThreadCallback switches every callback to queued delivery: the
	// application runs them by calling MainThreadAction from its chosen
	// thread. The monitor is then driven by those calls too.
	UseMainThreadCallback bool `mapstructure:"use_main_thread_callback" json:"use_main_thread_callback" yaml:"use_main_thread_callback" toml:"use_main_thread_callback"`

	// EnableLoggingResponseTime logs the elapsed time of each completed
	// request at info level.
	EnableLoggingResponseTime bool `mapstructure:"enable_logging_response_time" json:"enable_logging_response_time" yaml:"enable_logging_response_time" toml:"enable_logging_response_time"`

	// RequireAuth gates application sends and requests on a successful
	// authentication, failing them with ErrorUnauthenticated before it.
	RequireAuth bool `mapstructure:"require_auth" json:"require_auth" yaml:"require_auth" toml:"require_auth"`

	// Debug suppresses heartbeat emission so a stopped debugger does not
	// fight the keep-alive.
	Debug bool `mapstructure:"debug" json:"debug" yaml:"debug" toml:"debug"`
}

// DefaultConfig returns the documented defaults for the given endpoint:
// 10s connect timeout, 30s idle timeout, 10s heartbeat interval, 30s
// heartbeat timeout, 30s request timeout, immediate callbacks.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:              endpoint,
		ConnTimeout:           libdur.ParseDuration(10 * time.Second),
		ConnectionIdleTimeout: libdur.ParseDuration(30 * time.Second),
		HeartbeatInterval:     libdur.ParseDuration(10 * time.Second),
		HeartbeatTimeout:      libdur.ParseDuration(30 * time.Second),
		RequestTimeout:        libdur.ParseDuration(30 * time.Second),
	}
}

// Validate allow checking if the config' struct is valid with the awaiting model
func (c Config) Validate() liberr.Error {
	var e = ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(c); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			//nolint #goerr113
			e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if _, err := c.remote(); err != nil {
		e.Add(err)
	}

	if !e.HasParent() {
		e = nil
	}

	return e
}

// remote resolves the configured endpoint into a transport endpoint.
func (c Config) remote() (libtpt.Endpoint, liberr.Error) {
	if c.Endpoint == "" {
		return libtpt.Endpoint{}, ErrorParamsEmpty.Error(nil)
	}

	if strings.Contains(c.Endpoint, "://") {
		return libtpt.ParseEndpoint(c.Endpoint)
	}

	var s libtpt.Scheme

	switch {
	case c.UseWebsocket && c.UseSSL:
		s = libtpt.SchemeWSS
	case c.UseWebsocket:
		s = libtpt.SchemeWS
	case c.UseSSL:
		s = libtpt.SchemeTLS
	default:
		s = libtpt.SchemeTCP
	}

	return libtpt.ParseEndpoint(s.String() + "://" + c.Endpoint)
}

// transport builds the dial options shared with the transport variants.
func (c Config) transport() libtpt.Config {
	return libtpt.Config{
		DialTimeout: c.ConnTimeout,
		TLS:         c.TLS,
		ServerName:  c.ServerName,
	}
}
