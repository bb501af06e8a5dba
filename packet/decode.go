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
	"bytes"
	"encoding/binary"
	"sync"

	liberr "github.com/nabbar/golib/errors"
	lz4lib "github.com/pierrec/lz4/v4"
)

// Decoder re-frames an inbound byte stream into packets. It buffers at most
// the partial remainder of one incomplete frame between calls, so an arbitrary
// chunking of the stream (including one byte at a time) yields the same packet
// sequence.
//
// A Decoder is safe for concurrent use, though a connector drives it from a
// single read loop.
type Decoder struct {
	m sync.Mutex
	b bytes.Buffer
	n int // expected size of the frame being decoded, 0 = prefix not read yet
}

// NewDecoder returns an empty stream decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Push appends the given chunk to the receive buffer and returns every packet
// completed by it, in wire order.
//
// Any returned error is a protocol violation: the stream can no longer be
// trusted and the connection must be torn down rather than resynchronized.
func (d *Decoder) Push(chunk []byte) ([]Packet, liberr.Error) {
	d.m.Lock()
	defer d.m.Unlock()

	d.b.Write(chunk)

	var res []Packet

	for {
		if d.n == 0 {
			if d.b.Len() < SizeLen {
				return res, nil
			}

			size := int(int32(binary.LittleEndian.Uint32(d.b.Next(SizeLen))))
			if size < 1 || size > MaxFrameSize {
				return res, ErrorFrameSize.Error(nil)
			}

			d.n = size
		}

		if d.b.Len() < d.n {
			return res, nil
		}

		frame := make([]byte, d.n)
		_, _ = d.b.Read(frame)
		d.n = 0

		p, err := parseFrame(frame)
		if err != nil {
			return res, err
		}

		res = append(res, p)
	}
}

// Len returns the number of bytes currently buffered, i.e. the partial
// remainder of an incomplete frame.
func (d *Decoder) Len() int {
	d.m.Lock()
	defer d.m.Unlock()

	if d.n > 0 {
		return SizeLen + d.b.Len()
	}

	return d.b.Len()
}

// Reset discards any buffered partial frame. Called when a connection is torn
// down so a later connection starts from a clean stream.
func (d *Decoder) Reset() {
	d.m.Lock()
	defer d.m.Unlock()

	d.b.Reset()
	d.n = 0
}

// DecodeMessage decodes one whole message from a message-oriented transport.
// Each binary message carries exactly one length-prefixed frame and the prefix
// must match the message length.
func DecodeMessage(msg []byte) (Packet, liberr.Error) {
	if len(msg) < SizeLen {
		return Packet{}, ErrorTruncated.Error(nil)
	}

	size := int(int32(binary.LittleEndian.Uint32(msg)))
	if size < 1 || size > MaxFrameSize {
		return Packet{}, ErrorFrameSize.Error(nil)
	} else if size != len(msg)-SizeLen {
		return Packet{}, ErrorTruncated.Error(nil)
	}

	return parseFrame(msg[SizeLen:])
}

// DecodeRequest decodes the post-prefix bytes of one client → server frame.
// This is the server side of the codec, used by test servers and tooling.
func DecodeRequest(b []byte) (Packet, liberr.Error) {
	if len(b) < 1 {
		return Packet{}, ErrorTruncated.Error(nil)
	}

	idl := int(b[0])
	if len(b) < 1+idl+2+8 {
		return Packet{}, ErrorTruncated.Error(nil)
	}

	var (
		off = 1
		pkt Packet
	)

	pkt.MsgID = string(b[off : off+idl])
	off += idl

	pkt.MsgSeq = binary.LittleEndian.Uint16(b[off:])
	off += 2

	pkt.StageID = int64(binary.LittleEndian.Uint64(b[off:]))
	off += 8

	pkt.Payload = append([]byte(nil), b[off:]...)
	return pkt, nil
}

// parseFrame decodes the post-prefix bytes of one server → client frame.
func parseFrame(b []byte) (Packet, liberr.Error) {
	if len(b) < 1 {
		return Packet{}, ErrorTruncated.Error(nil)
	}

	idl := int(b[0])
	if len(b) < 1+idl+2+8+2+4 {
		return Packet{}, ErrorTruncated.Error(nil)
	}

	var (
		off = 1
		pkt Packet
	)

	pkt.MsgID = string(b[off : off+idl])
	off += idl

	pkt.MsgSeq = binary.LittleEndian.Uint16(b[off:])
	off += 2

	pkt.StageID = int64(binary.LittleEndian.Uint64(b[off:]))
	off += 8

	pkt.ErrorCode = binary.LittleEndian.Uint16(b[off:])
	off += 2

	pkt.OriginalSize = int32(binary.LittleEndian.Uint32(b[off:]))
	off += 4

	if pkt.OriginalSize < 0 {
		return Packet{}, ErrorTruncated.Error(nil)
	} else if pkt.OriginalSize > 0 {
		dst := make([]byte, pkt.OriginalSize)

		if n, e := lz4lib.UncompressBlock(b[off:], dst); e != nil {
			return Packet{}, ErrorDecompress.Error(e)
		} else if n != int(pkt.OriginalSize) {
			return Packet{}, ErrorDecompress.Error(nil)
		}

		pkt.Payload = dst
		return pkt, nil
	}

	// payload is not aliased to the frame buffer
	pkt.Payload = append([]byte(nil), b[off:]...)
	return pkt, nil
}
