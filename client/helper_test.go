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

package client_test

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"sync"
	"sync/atomic"

	libpkt "github.com/stagelink/connector/packet"

	. "github.com/onsi/gomega"
)

// gameServer is a miniature in-process game server speaking the connector
// wire protocol over TCP. It answers:
//
//	AuthenticateRequest → AuthenticateReply, error 0
//	EchoRequest         → EchoReply carrying the request payload
//	FailRequest         → FailReply carrying the errorCode of the payload
//	NoResponseRequest   → nothing
//	BroadcastRequest    → push BroadcastNotify carrying the request payload
//	@Heart@Beat@        → heartbeat echo (counted)
//
// Silence() stops every write while still reading, simulating a hung peer.
type gameServer struct {
	lsn net.Listener
	mux sync.Mutex
	cns []net.Conn

	silent atomic.Bool
	beats  atomic.Int32
	auths  atomic.Int32
}

func newGameServer() *gameServer {
	lsn, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).ToNot(HaveOccurred())

	srv := &gameServer{
		lsn: lsn,
	}

	go srv.acceptLoop()

	return srv
}

func (s *gameServer) Addr() string {
	return s.lsn.Addr().String()
}

func (s *gameServer) URI() string {
	return "tcp://" + s.Addr()
}

func (s *gameServer) Silence() {
	s.silent.Store(true)
}

func (s *gameServer) Beats() int32 {
	return s.beats.Load()
}

func (s *gameServer) Stop() {
	_ = s.lsn.Close()

	s.mux.Lock()
	defer s.mux.Unlock()

	for _, c := range s.cns {
		_ = c.Close()
	}
}

func (s *gameServer) acceptLoop() {
	for {
		con, err := s.lsn.Accept()
		if err != nil {
			return
		}

		s.mux.Lock()
		s.cns = append(s.cns, con)
		s.mux.Unlock()

		go s.serve(con)
	}
}

func (s *gameServer) serve(con net.Conn) {
	var wmu sync.Mutex

	defer func() {
		_ = con.Close()
	}()

	write := func(p libpkt.Packet) {
		if s.silent.Load() {
			return
		}

		buf, err := libpkt.EncodeResponse(p)
		if err != nil {
			return
		}

		wmu.Lock()
		defer wmu.Unlock()
		_, _ = con.Write(buf)
	}

	for {
		var szb [4]byte
		if _, err := io.ReadFull(con, szb[:]); err != nil {
			return
		}

		size := int(int32(binary.LittleEndian.Uint32(szb[:])))
		if size < 1 || size > libpkt.MaxFrameSize {
			return
		}

		body := make([]byte, size)
		if _, err := io.ReadFull(con, body); err != nil {
			return
		}

		req, err := libpkt.DecodeRequest(body)
		if err != nil {
			return
		}

		switch req.MsgID {
		case libpkt.MsgIDHeartbeat:
			s.beats.Add(1)
			write(libpkt.Packet{MsgID: libpkt.MsgIDHeartbeat})

		case "AuthenticateRequest":
			s.auths.Add(1)
			write(libpkt.Packet{
				MsgID:   "AuthenticateReply",
				MsgSeq:  req.MsgSeq,
				StageID: req.StageID,
				Payload: req.Payload,
			})

		case "EchoRequest":
			write(libpkt.Packet{
				MsgID:   "EchoReply",
				MsgSeq:  req.MsgSeq,
				StageID: req.StageID,
				Payload: req.Payload,
			})

		case "FailRequest":
			var fail struct {
				ErrorCode uint16 `json:"errorCode"`
				Msg       string `json:"msg"`
			}
			_ = json.Unmarshal(req.Payload, &fail)

			write(libpkt.Packet{
				MsgID:     "FailReply",
				MsgSeq:    req.MsgSeq,
				StageID:   req.StageID,
				ErrorCode: fail.ErrorCode,
			})

		case "NoResponseRequest":
			// never answered

		case "BroadcastRequest":
			write(libpkt.Packet{
				MsgID:   "BroadcastNotify",
				StageID: req.StageID,
				Payload: req.Payload,
			})
		}
	}
}
