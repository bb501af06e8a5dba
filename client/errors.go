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

	liberr "github.com/nabbar/golib/errors"
)

// Codes guaranteed at the API boundary. Their numeric values are part of the
// protocol contract and never change.
const (
	// ErrorDisconnected is raised when an operation is attempted while not
	// connected, or when the link is lost with requests in flight.
	ErrorDisconnected liberr.CodeError = 60201

	// ErrorRequestTimeout is raised when a pending request's timer elapsed
	// before a response arrived.
	ErrorRequestTimeout liberr.CodeError = 60202

	// ErrorUnauthenticated is raised when a gated send or request is
	// attempted before authentication succeeded.
	ErrorUnauthenticated liberr.CodeError = 60203
)

const (
	ErrorParamsEmpty liberr.CodeError = iota + 60210
	ErrorValidatorError
	ErrorInvalidState
	ErrorReservedMsgID
	ErrorConnection
	ErrorCancelled
	ErrorHeartbeatTimeout
	ErrorIdleTimeout
	ErrorProtocol
)

func init() {
	if liberr.ExistInMapMessage(ErrorDisconnected) {
		panic(fmt.Errorf("error code collision with package connector/client"))
	}
	liberr.RegisterIdFctMessage(ErrorDisconnected, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorDisconnected:
		return "client : not connected or link lost"
	case ErrorRequestTimeout:
		return "client : no response before the request timeout elapsed"
	case ErrorUnauthenticated:
		return "client : operation requires a successful authentication"
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorValidatorError:
		return "client : invalid config"
	case ErrorInvalidState:
		return "client : operation is not legal in the current connection state"
	case ErrorReservedMsgID:
		return "client : message identifier is reserved for the protocol"
	case ErrorConnection:
		return "client : cannot connect to server"
	case ErrorCancelled:
		return "client : request has been cancelled by the caller"
	case ErrorHeartbeatTimeout:
		return "client : no traffic from server within the heartbeat timeout"
	case ErrorIdleTimeout:
		return "client : idle connection closed"
	case ErrorProtocol:
		return "client : protocol violation on inbound stream"
	}

	return liberr.NullMessage
}
