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

// State is the connection lifecycle position of a client.
//
// Transitions:
//
//	Disconnected  --Connect-->        Connecting
//	Connecting    --transport ok-->   Connected
//	Connecting    --transport fail--> Disconnected
//	Connected     --Disconnect-->     Disconnecting --> Disconnected
//	Connected     --link lost-->      Disconnected
//	Disconnected  --Reconnect-->      Reconnecting --> Connecting ...
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateReconnecting:
		return "Reconnecting"
	case StateDisconnecting:
		return "Disconnecting"
	}

	return "Unknown"
}

func (o *cli) state() State {
	return State(o.stt.Load())
}

func (o *cli) setState(s State) {
	o.stt.Store(int32(s))
}

// casState performs the transition only if the current state matches.
// This is how a second Connect while not Disconnected is rejected.
func (o *cli) casState(from, to State) bool {
	return o.stt.CompareAndSwap(int32(from), int32(to))
}
