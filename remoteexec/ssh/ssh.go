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
	"bytes"
	"context"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/remoteexec"
	"golang.org/x/crypto/ssh"
)

// DefaultTimeout is the default timeout for establishing SSH connections.
const DefaultTimeout = 10 * time.Second

// ShellCommand is the remote command fed with scripts through stdin.
const ShellCommand = "/bin/sh -s"

// Dialer connects to SSH servers using password authentication.
type Dialer struct {
	timeout  time.Duration
	hostkeys ssh.HostKeyCallback
	backoff  backoff.BackOff
	log      logrus.FieldLogger
	shell    string
}

var _ remoteexec.Dialer = (*Dialer)(nil)

// NewDialer returns a new SSH Dialer, configured using the optional
// NewOptions.
func NewDialer(opts ...NewOption) *Dialer {
	d := &Dialer{
		timeout:  DefaultTimeout,
		hostkeys: ssh.InsecureIgnoreHostKey(), //nolint:gosec // nodes get fresh host keys
		backoff:  &backoff.StopBackOff{},
		log:      logrus.StandardLogger(),
		shell:    ShellCommand,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewOption represents options to NewDialer.
type NewOption func(*Dialer)

// WithTimeout sets the timeout for establishing a single SSH connection,
// including the SSH handshake.
func WithTimeout(timeout time.Duration) NewOption {
	return func(d *Dialer) {
		d.timeout = timeout
	}
}

// WithHostKeyCallback sets the callback for verifying host keys; it defaults
// to accepting any host key.
func WithHostKeyCallback(cb ssh.HostKeyCallback) NewOption {
	return func(d *Dialer) {
		d.hostkeys = cb
	}
}

// WithBackOff sets the backoff for retrying failed connection attempts.
// Defaults to backoff.StopBackOff, that is, no retries. Stateful backoffs,
// such as backoff.ExponentialBackOff, are reset on each Dial and thus must not
// be shared by concurrent Dials.
func WithBackOff(b backoff.BackOff) NewOption {
	return func(d *Dialer) {
		d.backoff = b
	}
}

// WithLogger sets the logger to use.
func WithLogger(log logrus.FieldLogger) NewOption {
	return func(d *Dialer) {
		d.log = log
	}
}

// WithShell sets the remote command that gets fed scripts through stdin.
func WithShell(command string) NewOption {
	return func(d *Dialer) {
		d.shell = command
	}
}

// Dial connects to the SSH server at the specified host and port,
// authenticating with the specified user name and password.
func (d *Dialer) Dial(ctx context.Context, host string, port int, creds whalefleet.Credentials) (remoteexec.Client, error) {
	addr := remoteexec.Address(host, port)
	config := &ssh.ClientConfig{
		User:            creds.User,
		Auth:            []ssh.AuthMethod{ssh.Password(creds.Password)},
		HostKeyCallback: d.hostkeys,
		Timeout:         d.timeout,
	}
	var client *ssh.Client
	d.backoff.Reset()
	err := backoff.RetryNotify(
		func() error {
			var err error
			client, err = d.dial(ctx, addr, config)
			if isAuthFailure(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(d.backoff, ctx),
		func(err error, next time.Duration) {
			d.log.WithField("address", addr).WithError(err).
				Debugf("SSH connection failed, retrying in %s", next)
		})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to %s@%s", creds.User, addr)
	}
	d.log.WithField("address", addr).Debug("SSH connected")
	return &Client{
		client: client,
		shell:  d.shell,
		addr:   addr,
	}, nil
}

// dial a single connection attempt, honoring the context as well as the
// dialer's timeout.
func (d *Dialer) dial(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	netd := net.Dialer{}
	conn, err := netd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	// The SSH handshake doesn't know about contexts, so we use the context's
	// deadline instead.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	sshconn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	return ssh.NewClient(sshconn, chans, reqs), nil
}

func isAuthFailure(err error) bool {
	return err != nil && strings.Contains(err.Error(), "unable to authenticate")
}

// Client executes scripts over an established SSH connection.
type Client struct {
	client *ssh.Client
	shell  string
	addr   string
}

var _ remoteexec.Client = (*Client)(nil)

// Exec runs the specified script on the remote host by feeding it to the
// remote shell, returning the captured stdout and exit status. If the context
// gets cancelled while the script is still running, the SSH session is closed
// and the context's error returned.
func (c *Client) Exec(ctx context.Context, script string) (remoteexec.ExecResponse, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return remoteexec.ExecResponse{}, errors.Wrapf(err, "cannot open SSH session to %s", c.addr)
	}
	defer session.Close()
	var stdout bytes.Buffer
	session.Stdin = strings.NewReader(script)
	session.Stdout = &stdout

	done := make(chan error, 1)
	go func() {
		done <- session.Run(c.shell)
	}()
	select {
	case <-ctx.Done():
		session.Close()
		<-done
		return remoteexec.ExecResponse{}, ctx.Err()
	case err = <-done:
	}
	resp := remoteexec.ExecResponse{Output: stdout.String()}
	if err != nil {
		var exiterr *ssh.ExitError
		if !errors.As(err, &exiterr) {
			return remoteexec.ExecResponse{}, errors.Wrapf(err, "cannot execute script on %s", c.addr)
		}
		resp.ExitStatus = exiterr.ExitStatus()
	}
	return resp, nil
}

// Close the SSH connection.
func (c *Client) Close() error {
	return c.client.Close()
}
