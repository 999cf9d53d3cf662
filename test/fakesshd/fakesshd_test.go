// Copyright 2021 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fakesshd

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/fdooze"
	. "github.com/thediveo/success"
)

var _ = Describe("fake SSH server", func() {

	BeforeEach(func() {
		goodfds := Filedescriptors()
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).ShouldNot(HaveLeaked(goodgos))
			Eventually(Filedescriptors).ShouldNot(HaveLeakedFds(goodfds))
		})
	})

	It("serves on loopback and shuts down", func() {
		s := Successful(New("root", "password", OsDetails("ubuntu", "22.04", "64")))
		Expect(s.Host()).To(Equal("127.0.0.1"))
		Expect(s.Port()).To(BeNumerically(">", 0))
		conn := Successful(net.Dial("tcp", s.listener.Addr().String()))
		Eventually(s.Connections).Should(Equal(1))
		Expect(conn.Close()).To(Succeed())
		Expect(s.Close()).To(Succeed())
		Expect(s.Scripts()).To(BeEmpty())
	})

	It("closes without ever being dialed", func() {
		for range 20 {
			s := Successful(New("root", "password", OsDetails("ubuntu", "22.04", "64")))
			done := make(chan error)
			go func() { done <- s.Close() }()
			Eventually(done).Within(2 * time.Second).Should(Receive(BeNil()))
		}
	})

	It("renders OS details", func() {
		out, status := OsDetails("centos", "7", "64")("/bin/sh -s", "")
		Expect(out).To(Equal("os:centos;version:7;arch:64\n"))
		Expect(status).To(BeZero())
	})

})
