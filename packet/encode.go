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

package packet

import (
	"encoding/binary"

	liberr "github.com/nabbar/golib/errors"
)

// Encode builds the outbound client → server frame for the given packet,
// length prefix included. The payload is copied exactly once, into the frame
// buffer. Requests are never compressed.
func Encode(p Packet) ([]byte, liberr.Error) {
	var (
		mid = []byte(p.MsgID)
		off int
	)

	if len(mid) > MaxMsgIDLen {
		return nil, ErrorMsgIDTooLong.Error(nil)
	}

	// content_size counts only the bytes following the prefix
	size := 1 + len(mid) + 2 + 8 + len(p.Payload)
	buf := make([]byte, SizeLen+size)

	binary.LittleEndian.PutUint32(buf[0:], uint32(size))
	off = SizeLen

	buf[off] = uint8(len(mid))
	off++

	off += copy(buf[off:], mid)

	binary.LittleEndian.PutUint16(buf[off:], p.MsgSeq)
	off += 2

	binary.LittleEndian.PutUint64(buf[off:], uint64(p.StageID))
	off += 8

	copy(buf[off:], p.Payload)

	return buf, nil
}

// EncodeResponse builds a server → client frame for the given packet, length
// prefix included. The connector itself never sends such frames; this is the
// server side of the codec, used by test servers and tooling.
//
// The payload is written as given: a caller producing a compressed frame must
// set OriginalSize to the decompressed length and supply the LZ4 block as
// payload.
func EncodeResponse(p Packet) ([]byte, liberr.Error) {
	var (
		mid = []byte(p.MsgID)
		off int
	)

	if len(mid) > MaxMsgIDLen {
		return nil, ErrorMsgIDTooLong.Error(nil)
	}

	size := 1 + len(mid) + 2 + 8 + 2 + 4 + len(p.Payload)
	buf := make([]byte, SizeLen+size)

	binary.LittleEndian.PutUint32(buf[0:], uint32(size))
	off = SizeLen

	buf[off] = uint8(len(mid))
	off++

	off += copy(buf[off:], mid)

	binary.LittleEndian.PutUint16(buf[off:], p.MsgSeq)
	off += 2

	binary.LittleEndian.PutUint64(buf[off:], uint64(p.StageID))
	off += 8

	binary.LittleEndian.PutUint16(buf[off:], p.ErrorCode)
	off += 2

	binary.LittleEndian.PutUint32(buf[off:], uint32(p.OriginalSize))
	off += 4

	copy(buf[off:], p.Payload)

	return buf, nil
}
