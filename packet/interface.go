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

// Package packet implements the wire unit and the frame codec of the connector
// protocol.
//
// A Packet is the immutable application message exchanged with the server. On
// the wire each packet travels as one length-prefixed frame, little-endian
// throughout:
//
//	client → server
//
//	  content_size : i32    bytes following the prefix
//	  msg_id_len   : u8
//	  msg_id       : msg_id_len bytes, UTF-8
//	  msg_seq      : u16    0 = fire-and-forget / push
//	  stage_id     : i64
//	  payload      : remaining bytes
//
//	server → client : same prefix plus two fields between stage_id and payload
//
//	  error_code    : u16   0 = success
//	  original_size : i32   >0 = payload is LZ4 block compressed
//
// Encode builds outbound frames. The Decoder re-frames an inbound byte stream
// (TCP) into packets; DecodeMessage handles the message-oriented transports
// (websocket) where each binary message carries exactly one frame.
//
// Basic usage:
//
//	p := packet.New("EchoRequest", []byte(`{"content":"hi"}`))
//	buf, err := packet.Encode(p)
//
//	dec := packet.NewDecoder()
//	pkts, err := dec.Push(chunk)
package packet

// Reserved message identifiers. Identifiers in the "@…@" space belong to the
// protocol itself and are rejected for application sends.
const (
	// MsgIDHeartbeat is the keep-alive packet identifier, dropped silently on
	// receipt after refreshing the liveness clock.
	MsgIDHeartbeat = "@Heart@Beat@"

	// MsgIDDebug is reserved for debug diagnostics.
	MsgIDDebug = "@Debug@"

	// MsgIDTimeout is reserved for timeout notification.
	MsgIDTimeout = "@Timeout@"
)

const (
	// MaxMsgIDLen is the maximum UTF-8 byte length of a message identifier.
	MaxMsgIDLen = 255

	// MaxFrameSize is the safety cap applied to any announced frame size.
	// A size outside [1, MaxFrameSize] is a protocol violation and must tear
	// the connection down.
	MaxFrameSize = 10 << 20

	// SizeLen is the byte length of the frame size prefix.
	SizeLen = 4
)

// Packet is the wire unit of the protocol. It is immutable once constructed:
// neither the codec nor the connector mutates a Packet or aliases its payload
// after construction.
type Packet struct {
	// MsgID identifies the application message type (UTF-8, max 255 bytes).
	MsgID string

	// MsgSeq correlates a request with its response. 0 means unsolicited push
	// or fire-and-forget.
	MsgSeq uint16

	// StageID is the application-level routing context, 0 when not applicable.
	StageID int64

	// ErrorCode is set on server → client packets, 0 on success.
	ErrorCode uint16

	// OriginalSize is the decompressed payload length when the server sent the
	// payload LZ4 compressed, 0 for an uncompressed payload. Decoded packets
	// always carry the decompressed payload.
	OriginalSize int32

	// Payload is the opaque application payload.
	Payload []byte
}

// New returns a packet carrying the given message identifier and payload,
// with no sequence number and no stage routing.
func New(msgID string, payload []byte) Packet {
	return Packet{
		MsgID:   msgID,
		Payload: payload,
	}
}

// NewStage returns a packet bound to the given stage routing context.
func NewStage(msgID string, payload []byte, stageID int64) Packet {
	return Packet{
		MsgID:   msgID,
		StageID: stageID,
		Payload: payload,
	}
}

// IsReserved reports whether the given message identifier belongs to the
// protocol reserved space.
func IsReserved(msgID string) bool {
	if len(msgID) < 2 {
		return false
	}

	return msgID[0] == '@' && msgID[len(msgID)-1] == '@'
}

// IsHeartbeat reports whether the packet is a keep-alive packet.
func (p Packet) IsHeartbeat() bool {
	return p.MsgID == MsgIDHeartbeat
}

// IsPush reports whether the packet is an unsolicited server push, i.e. not
// correlated to any client request.
func (p Packet) IsPush() bool {
	return p.MsgSeq == 0
}
