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
	"sync/atomic"
	"time"

	libclt "github.com/stagelink/connector/client"
	libpkt "github.com/stagelink/connector/packet"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Connection lifecycle", func() {
	var srv *gameServer

	BeforeEach(func() {
		srv = newGameServer()
	})

	AfterEach(func() {
		srv.Stop()
	})

	Describe("Connect", func() {
		It("should connect and report the connect event", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			var ok atomic.Bool
			cli.RegisterFuncConnect(func(success bool) {
				ok.Store(success)
			})

			Expect(cli.State()).To(Equal(libclt.StateDisconnected))
			Expect(cli.Connect(ctx)).ToNot(HaveOccurred())
			Expect(cli.IsConnected()).To(BeTrue())
			Expect(cli.State()).To(Equal(libclt.StateConnected))

			Eventually(func() bool { return ok.Load() }, time.Second).Should(BeTrue())
		})

		It("should fail and emit the connect event when no server listens", func() {
			gone := newGameServer()
			adr := gone.URI()
			gone.Stop()

			cli, err := libclt.New(testConfig(adr))
			Expect(err).ToNot(HaveOccurred())

			var (
				fired atomic.Bool
				ok    atomic.Bool
			)

			cli.RegisterFuncConnect(func(success bool) {
				ok.Store(success)
				fired.Store(true)
			})

			cErr := cli.Connect(ctx)
			Expect(cErr).To(HaveOccurred())
			Expect(cErr.IsCode(libclt.ErrorConnection)).To(BeTrue())
			Expect(cli.IsConnected()).To(BeFalse())
			Expect(cli.State()).To(Equal(libclt.StateDisconnected))

			Eventually(func() bool { return fired.Load() }, time.Second).Should(BeTrue())
			Expect(ok.Load()).To(BeFalse())
		})

		It("should reject a second connect while connected", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			Expect(cli.Connect(ctx)).ToNot(HaveOccurred())

			cErr := cli.Connect(ctx)
			Expect(cErr).To(HaveOccurred())
			Expect(cErr.IsCode(libclt.ErrorInvalidState)).To(BeTrue())
		})

		It("should validate the configuration", func() {
			_, err := libclt.New(libclt.Config{})
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libclt.ErrorValidatorError)).To(BeTrue())
		})
	})

	Describe("Disconnect", func() {
		It("should be idempotent", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())

			Expect(cli.Connect(ctx)).ToNot(HaveOccurred())

			Expect(cli.Disconnect()).ToNot(HaveOccurred())
			Expect(cli.Disconnect()).ToNot(HaveOccurred())
			Expect(cli.Disconnect()).ToNot(HaveOccurred())

			Expect(cli.IsConnected()).To(BeFalse())
			Expect(cli.State()).To(Equal(libclt.StateDisconnected))
		})

		It("should not fire the disconnect event on an intentional disconnect", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())

			var fired atomic.Bool
			cli.RegisterFuncDisconnect(func(intentional bool, cause error) {
				fired.Store(true)
			})

			Expect(cli.Connect(ctx)).ToNot(HaveOccurred())
			Expect(cli.Disconnect()).ToNot(HaveOccurred())

			Consistently(func() bool { return fired.Load() }, 300*time.Millisecond).Should(BeFalse())
		})

		It("should fire the disconnect event when the server drops the link", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			var (
				fired atomic.Int32
				intnl atomic.Bool
			)

			cli.RegisterFuncDisconnect(func(intentional bool, cause error) {
				intnl.Store(intentional)
				fired.Add(1)
			})

			Expect(cli.Connect(ctx)).ToNot(HaveOccurred())

			srv.Stop()

			Eventually(func() int32 { return fired.Load() }, 2*time.Second).Should(Equal(int32(1)))
			Expect(intnl.Load()).To(BeFalse())
			Expect(cli.IsConnected()).To(BeFalse())

			Consistently(func() int32 { return fired.Load() }, 200*time.Millisecond).Should(Equal(int32(1)))
		})
	})

	Describe("Reconnect", func() {
		It("should establish a fresh connection", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			Expect(cli.Connect(ctx)).ToNot(HaveOccurred())
			Expect(cli.Reconnect(ctx)).ToNot(HaveOccurred())
			Expect(cli.IsConnected()).To(BeTrue())

			// the new link works
			rsp, rErr := cli.Request(ctx, libpkt.New("EchoRequest", []byte(`{"content":"hi"}`)), 0)
			Expect(rErr).ToNot(HaveOccurred())
			Expect(rsp.MsgID).To(Equal("EchoReply"))
		})

		It("should clear the authenticated latch", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			Expect(cli.Connect(ctx)).ToNot(HaveOccurred())

			_, aErr := cli.Authenticate(ctx, libpkt.New("AuthenticateRequest", []byte(`{"user":"u","token":"t"}`)), 0)
			Expect(aErr).ToNot(HaveOccurred())
			Expect(cli.IsAuthenticated()).To(BeTrue())

			Expect(cli.Reconnect(ctx)).ToNot(HaveOccurred())
			Expect(cli.IsAuthenticated()).To(BeFalse())
		})
	})

	Describe("ConnectAsync", func() {
		It("should report the outcome through the connect event", func() {
			cli, err := libclt.New(testConfig(srv.URI()))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			var ok atomic.Bool
			cli.RegisterFuncConnect(func(success bool) {
				ok.Store(success)
			})

			cli.ConnectAsync(ctx)

			Eventually(func() bool { return ok.Load() }, 2*time.Second).Should(BeTrue())
			Eventually(cli.IsConnected, time.Second).Should(BeTrue())
		})
	})
})
