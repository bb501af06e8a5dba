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

package packet_test

import (
	"encoding/binary"

	lz4lib "github.com/pierrec/lz4/v4"
	libpkt "github.com/stagelink/connector/packet"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// respFrame builds a server → client frame for the given packet.
func respFrame(p libpkt.Packet) []byte {
	buf, err := libpkt.EncodeResponse(p)
	Expect(err).ToNot(HaveOccurred())
	return buf
}

var _ = Describe("Decoder", func() {
	var dec *libpkt.Decoder

	BeforeEach(func() {
		dec = libpkt.NewDecoder()
	})

	Context("with one complete frame", func() {
		It("should decode exactly one packet", func() {
			p := libpkt.NewStage("EchoReply", []byte(`{"content":"hi"}`), 5)
			p.MsgSeq = 3

			pkts, err := dec.Push(respFrame(p))
			Expect(err).ToNot(HaveOccurred())
			Expect(pkts).To(HaveLen(1))
			Expect(pkts[0].MsgID).To(Equal("EchoReply"))
			Expect(pkts[0].MsgSeq).To(Equal(uint16(3)))
			Expect(pkts[0].StageID).To(Equal(int64(5)))
			Expect(pkts[0].ErrorCode).To(Equal(uint16(0)))
			Expect(pkts[0].Payload).To(Equal(p.Payload))
			Expect(dec.Len()).To(Equal(0))
		})

		It("should carry the error code", func() {
			p := libpkt.New("FailReply", nil)
			p.ErrorCode = 6000

			pkts, err := dec.Push(respFrame(p))
			Expect(err).ToNot(HaveOccurred())
			Expect(pkts).To(HaveLen(1))
			Expect(pkts[0].ErrorCode).To(Equal(uint16(6000)))
		})
	})

	Context("with a fragmented stream", func() {
		It("should reassemble a frame delivered one byte at a time", func() {
			p := libpkt.New("EchoReply", []byte(`{"content":"fragmented"}`))
			p.MsgSeq = 9

			var got []libpkt.Packet
			for _, b := range respFrame(p) {
				pkts, err := dec.Push([]byte{b})
				Expect(err).ToNot(HaveOccurred())
				got = append(got, pkts...)
			}

			Expect(got).To(HaveLen(1))
			Expect(got[0].MsgID).To(Equal("EchoReply"))
			Expect(got[0].Payload).To(Equal(p.Payload))
		})

		It("should decode several frames from one chunk", func() {
			a := libpkt.New("A", []byte("aa"))
			b := libpkt.New("B", []byte("bb"))
			c := libpkt.New("C", nil)

			chunk := append(append(respFrame(a), respFrame(b)...), respFrame(c)...)

			pkts, err := dec.Push(chunk)
			Expect(err).ToNot(HaveOccurred())
			Expect(pkts).To(HaveLen(3))
			Expect(pkts[0].MsgID).To(Equal("A"))
			Expect(pkts[1].MsgID).To(Equal("B"))
			Expect(pkts[2].MsgID).To(Equal("C"))
		})

		It("should hold a partial frame across pushes", func() {
			p := libpkt.New("EchoReply", []byte("partial payload"))
			frame := respFrame(p)

			pkts, err := dec.Push(frame[:7])
			Expect(err).ToNot(HaveOccurred())
			Expect(pkts).To(BeEmpty())
			Expect(dec.Len()).To(BeNumerically(">", 0))

			pkts, err = dec.Push(frame[7:])
			Expect(err).ToNot(HaveOccurred())
			Expect(pkts).To(HaveLen(1))
			Expect(dec.Len()).To(Equal(0))
		})
	})

	Context("with a compressed payload", func() {
		It("should decompress when original_size is set", func() {
			raw := []byte(`{"content":"hi there, this payload travels compressed on the wire"}`)

			comp := make([]byte, lz4lib.CompressBlockBound(len(raw)))
			n, e := lz4lib.CompressBlock(raw, comp, nil)
			Expect(e).ToNot(HaveOccurred())
			Expect(n).To(BeNumerically(">", 0))

			p := libpkt.New("EchoReply", comp[:n])
			p.OriginalSize = int32(len(raw))

			pkts, err := dec.Push(respFrame(p))
			Expect(err).ToNot(HaveOccurred())
			Expect(pkts).To(HaveLen(1))
			Expect(pkts[0].Payload).To(Equal(raw))
		})

		It("should reject a corrupted block", func() {
			p := libpkt.New("EchoReply", []byte{0xff, 0xff, 0xff, 0xff})
			p.OriginalSize = 64

			_, err := dec.Push(respFrame(p))
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libpkt.ErrorDecompress)).To(BeTrue())
		})
	})

	Context("with a protocol violation", func() {
		It("should reject a zero frame size", func() {
			buf := make([]byte, libpkt.SizeLen)
			binary.LittleEndian.PutUint32(buf, 0)

			_, err := dec.Push(buf)
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libpkt.ErrorFrameSize)).To(BeTrue())
		})

		It("should reject a frame size above the cap", func() {
			buf := make([]byte, libpkt.SizeLen)
			binary.LittleEndian.PutUint32(buf, uint32(libpkt.MaxFrameSize+1))

			_, err := dec.Push(buf)
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libpkt.ErrorFrameSize)).To(BeTrue())
		})

		It("should reject a negative frame size", func() {
			buf := make([]byte, libpkt.SizeLen)
			binary.LittleEndian.PutUint32(buf, 0xFFFFFFFF)

			_, err := dec.Push(buf)
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libpkt.ErrorFrameSize)).To(BeTrue())
		})

		It("should reject a truncated header", func() {
			// frame announces 3 bytes, too short for any header
			buf := make([]byte, libpkt.SizeLen+3)
			binary.LittleEndian.PutUint32(buf, 3)

			_, err := dec.Push(buf)
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libpkt.ErrorTruncated)).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("should discard buffered partial state", func() {
			p := libpkt.New("EchoReply", []byte("leftovers"))
			frame := respFrame(p)

			_, err := dec.Push(frame[:9])
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Len()).To(BeNumerically(">", 0))

			dec.Reset()
			Expect(dec.Len()).To(Equal(0))

			// a fresh frame decodes cleanly after the reset
			pkts, err := dec.Push(frame)
			Expect(err).ToNot(HaveOccurred())
			Expect(pkts).To(HaveLen(1))
		})
	})
})

var _ = Describe("DecodeMessage", func() {
	It("should decode one whole framed message", func() {
		p := libpkt.NewStage("BroadcastNotify", []byte(`{"content":"bcast"}`), 1)

		pkt, err := libpkt.DecodeMessage(respFrame(p))
		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.MsgID).To(Equal("BroadcastNotify"))
		Expect(pkt.IsPush()).To(BeTrue())
		Expect(pkt.Payload).To(Equal(p.Payload))
	})

	It("should reject a message whose prefix disagrees with its length", func() {
		frame := respFrame(libpkt.New("X", []byte("abc")))

		_, err := libpkt.DecodeMessage(frame[:len(frame)-1])
		Expect(err).To(HaveOccurred())
		Expect(err.IsCode(libpkt.ErrorTruncated)).To(BeTrue())
	})

	It("should reject a message shorter than the prefix", func() {
		_, err := libpkt.DecodeMessage([]byte{1, 0})
		Expect(err).To(HaveOccurred())
		Expect(err.IsCode(libpkt.ErrorTruncated)).To(BeTrue())
	})
})
