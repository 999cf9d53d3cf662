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
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/ssh"
)

// Responder returns the output and exit status for the specified command and
// script received by the fake SSH server.
type Responder func(command string, script string) (output string, exitStatus int)

// OsDetails returns a Responder that answers any script with the specified OS
// details in the "os:...;version:...;arch:..." format.
func OsDetails(os, version, arch string) Responder {
	return func(string, string) (string, int) {
		return fmt.Sprintf("os:%s;version:%s;arch:%s\n", os, version, arch), 0
	}
}

// Server is a fake SSH server.
type Server struct {
	server    *ssh.Server
	listener  *countingListener
	responder Responder

	mux     sync.Mutex
	scripts []string
	done    chan struct{}
}

// New returns a new fake SSH server already serving on a random loopback
// port. Only sessions authenticating with the specified user and password are
// accepted.
func New(user, password string, responder Responder) (*Server, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener:  &countingListener{Listener: l},
		responder: responder,
		done:      make(chan struct{}),
	}
	s.server = &ssh.Server{
		Handler: s.handle,
		PasswordHandler: func(ctx ssh.Context, pw string) bool {
			return ctx.User() == user && pw == password
		},
	}
	go func() {
		defer close(s.done)
		_ = s.server.Serve(s.listener)
	}()
	return s, nil
}

func (s *Server) handle(sess ssh.Session) {
	script, err := io.ReadAll(sess)
	if err != nil {
		_ = sess.Exit(255)
		return
	}
	s.mux.Lock()
	s.scripts = append(s.scripts, string(script))
	s.mux.Unlock()
	output, status := s.responder(sess.RawCommand(), string(script))
	_, _ = io.WriteString(sess, output)
	_ = sess.Exit(status)
}

// Host returns the IP address the fake SSH server listens on.
func (s *Server) Host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the port the fake SSH server listens on.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Scripts returns the scripts received so far.
func (s *Server) Scripts() []string {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]string(nil), s.scripts...)
}

// Connections returns the number of currently open client connections.
func (s *Server) Connections() int {
	return int(s.listener.open.Load())
}

// Close the fake SSH server, waiting for its serving goroutine to terminate.
// The listener gets closed separately, as the SSH server only tracks it after
// its serving goroutine got going.
func (s *Server) Close() error {
	err := s.server.Close()
	_ = s.listener.Close()
	<-s.done
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// countingListener keeps track of the currently open connections it has
// accepted.
type countingListener struct {
	net.Listener
	open atomic.Int32
}

func (l *countingListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	l.open.Add(1)
	return &countedConn{Conn: conn, l: l}, nil
}

type countedConn struct {
	net.Conn
	l    *countingListener
	once sync.Once
}

func (c *countedConn) Close() error {
	c.once.Do(func() { c.l.open.Add(-1) })
	return c.Conn.Close()
}
