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

package ssh

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/test/fakesshd"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/fdooze"
	. "github.com/thediveo/success"
)

var rootCreds = whalefleet.Credentials{
	User:     "root",
	Password: "password",
}

// unusedPort returns a loopback port that nobody listens on (at least not
// for a short while).
func unusedPort() int {
	l := Successful(net.Listen("tcp", "127.0.0.1:0"))
	port := l.Addr().(*net.TCPAddr).Port
	Expect(l.Close()).To(Succeed())
	return port
}

var _ = Describe("SSH remote exec", func() {

	BeforeEach(func() {
		goodfds := Filedescriptors()
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).ShouldNot(HaveLeaked(goodgos))
			Eventually(Filedescriptors).ShouldNot(HaveLeakedFds(goodfds))
		})
	})

	var sshd *fakesshd.Server

	BeforeEach(func() {
		sshd = Successful(fakesshd.New("root", "password",
			func(command, script string) (string, int) {
				switch {
				case strings.Contains(script, "exit 3"):
					return "oops\n", 3
				default:
					return command + "|" + script, 0
				}
			}))
		DeferCleanup(func() {
			Expect(sshd.Close()).To(Succeed())
		})
	})

	It("runs a script and disconnects", func(ctx context.Context) {
		d := NewDialer(WithTimeout(2 * time.Second))
		c := Successful(d.Dial(ctx, sshd.Host(), sshd.Port(), rootCreds))
		Eventually(sshd.Connections).Should(Equal(1))

		script := "uname -a\necho done\n"
		resp := Successful(c.Exec(ctx, script))
		Expect(resp.ExitStatus).To(BeZero())
		Expect(resp.Output).To(Equal(ShellCommand + "|" + script))
		Expect(sshd.Scripts()).To(ConsistOf(script))

		Expect(c.Close()).To(Succeed())
		Eventually(sshd.Connections).Should(BeZero())
	})

	It("reports non-zero exit status without error", func(ctx context.Context) {
		c := Successful(NewDialer().Dial(ctx, sshd.Host(), sshd.Port(), rootCreds))
		defer c.Close()
		resp := Successful(c.Exec(ctx, "exit 3"))
		Expect(resp.ExitStatus).To(Equal(3))
		Expect(resp.Output).To(Equal("oops\n"))
	})

	It("uses a custom shell", func(ctx context.Context) {
		c := Successful(NewDialer(WithShell("/bin/bash -s")).Dial(ctx, sshd.Host(), sshd.Port(), rootCreds))
		defer c.Close()
		Expect(c.Exec(ctx, "true")).To(HaveField("Output", HavePrefix("/bin/bash -s|")))
	})

	It("rejects wrong credentials without retrying", func(ctx context.Context) {
		attempts := 0
		d := NewDialer(WithBackOff(backoff.WithMaxRetries(&countingBackOff{
			BackOff: &backoff.ZeroBackOff{}, attempts: &attempts}, 5)))
		_, err := d.Dial(ctx, sshd.Host(), sshd.Port(), whalefleet.Credentials{
			User: "root", Password: "wrong",
		})
		Expect(err).To(MatchError(ContainSubstring("cannot connect to root@")))
		Expect(isAuthFailure(err)).To(BeTrue())
		Expect(attempts).To(BeZero())
		Eventually(sshd.Connections).Should(BeZero())
	})

	It("fails exactly once by default", func(ctx context.Context) {
		_, err := NewDialer().Dial(ctx, "127.0.0.1", unusedPort(), rootCreds)
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
		Expect(isAuthFailure(err)).To(BeFalse())
	})

	It("retries when told so", func(ctx context.Context) {
		attempts := 0
		d := NewDialer(WithBackOff(backoff.WithMaxRetries(&countingBackOff{
			BackOff: &backoff.ZeroBackOff{}, attempts: &attempts}, 2)))
		Expect(d.Dial(ctx, "127.0.0.1", unusedPort(), rootCreds)).Error().To(HaveOccurred())
		Expect(attempts).To(Equal(2))
	})

	It("honors cancelled contexts", func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		Expect(NewDialer().Dial(ctx, sshd.Host(), sshd.Port(), rootCreds)).Error().To(
			MatchError(context.Canceled))
	})

})

// countingBackOff counts the retries asked for.
type countingBackOff struct {
	backoff.BackOff
	attempts *int
}

func (b *countingBackOff) NextBackOff() time.Duration {
	*b.attempts++
	return b.BackOff.NextBackOff()
}
