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

package websocket_test

import (
	"sync"
	"sync/atomic"
	"time"

	libtpt "github.com/stagelink/connector/transport"
	sckclt "github.com/stagelink/connector/transport/websocket"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transport Websocket", func() {
	var (
		uri  string
		stop func()
	)

	BeforeEach(func() {
		uri, stop = echoServer()
	})

	AfterEach(func() {
		stop()
	})

	Describe("New", func() {
		It("should reject a stream endpoint", func() {
			_, err := sckclt.New(mustEndpoint("tcp://127.0.0.1:34001"), libtpt.Config{})
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libtpt.ErrorEndpointScheme)).To(BeTrue())
		})
	})

	Describe("Connect", func() {
		It("should establish a connection", func() {
			tpt, err := sckclt.New(mustEndpoint(uri), libtpt.Config{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = tpt.Close()
			}()

			Expect(tpt.Connect(ctx)).ToNot(HaveOccurred())
			Expect(tpt.IsConnected()).To(BeTrue())
		})

		It("should fail when no server listens", func() {
			gone, stopNow := echoServer()
			stopNow()

			tpt, err := sckclt.New(mustEndpoint(gone), libtpt.Config{})
			Expect(err).ToNot(HaveOccurred())

			cErr := tpt.Connect(ctx)
			Expect(cErr).To(HaveOccurred())
			Expect(cErr.IsCode(libtpt.ErrorDial)).To(BeTrue())
		})
	})

	Describe("Send and receive", func() {
		It("should echo one whole message per send", func() {
			tpt, err := sckclt.New(mustEndpoint(uri), libtpt.Config{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = tpt.Close()
			}()

			var (
				m   sync.Mutex
				got [][]byte
			)

			tpt.RegisterFuncData(func(p []byte) {
				m.Lock()
				got = append(got, p)
				m.Unlock()
			})

			Expect(tpt.Connect(ctx)).ToNot(HaveOccurred())
			Expect(tpt.Send([]byte("first"))).ToNot(HaveOccurred())
			Expect(tpt.Send([]byte("second"))).ToNot(HaveOccurred())

			Eventually(func() int {
				m.Lock()
				defer m.Unlock()
				return len(got)
			}, 2*time.Second, 10*time.Millisecond).Should(Equal(2))

			m.Lock()
			defer m.Unlock()
			Expect(string(got[0])).To(Equal("first"))
			Expect(string(got[1])).To(Equal("second"))
		})

		It("should fail to send while not connected", func() {
			tpt, err := sckclt.New(mustEndpoint(uri), libtpt.Config{})
			Expect(err).ToNot(HaveOccurred())

			sErr := tpt.Send([]byte("nope"))
			Expect(sErr).To(HaveOccurred())
			Expect(sErr.IsCode(libtpt.ErrorNotConnected)).To(BeTrue())
		})
	})

	Describe("Close", func() {
		It("should signal a nil cause on local close exactly once", func() {
			tpt, err := sckclt.New(mustEndpoint(uri), libtpt.Config{})
			Expect(err).ToNot(HaveOccurred())

			var (
				fired atomic.Int32
				cause atomic.Value
			)

			tpt.RegisterFuncClosed(func(e error) {
				fired.Add(1)
				if e != nil {
					cause.Store(e)
				}
			})

			Expect(tpt.Connect(ctx)).ToNot(HaveOccurred())
			_ = tpt.Close()

			Eventually(func() int32 { return fired.Load() }, time.Second).Should(Equal(int32(1)))
			Consistently(func() int32 { return fired.Load() }, 100*time.Millisecond).Should(Equal(int32(1)))
			Expect(cause.Load()).To(BeNil())
		})

		It("should signal the cause when the peer closes", func() {
			tpt, err := sckclt.New(mustEndpoint(uri), libtpt.Config{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = tpt.Close()
			}()

			var fired atomic.Int32

			tpt.RegisterFuncClosed(func(e error) {
				defer GinkgoRecover()
				Expect(e).To(HaveOccurred())
				fired.Add(1)
			})

			Expect(tpt.Connect(ctx)).ToNot(HaveOccurred())

			stop()

			Eventually(func() int32 { return fired.Load() }, 2*time.Second).Should(Equal(int32(1)))
		})
	})
})
