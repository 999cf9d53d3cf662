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

package compute

import (
	"context"
	"errors"
	"sync"

	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/remoteexec"
	"github.com/thediveo/whalefleet/test/fakesshd"
)

// redirectingDialer dials the fake SSH server regardless of the requested
// host and port, but keeps a record of the endpoints asked for.
type redirectingDialer struct {
	sshd   *fakesshd.Server
	dialer remoteexec.Dialer

	mux    sync.Mutex
	dialed []Endpoint
}

func (d *redirectingDialer) Dial(ctx context.Context, host string, port int, creds whalefleet.Credentials) (remoteexec.Client, error) {
	d.mux.Lock()
	d.dialed = append(d.dialed, Endpoint{Host: host, Port: port})
	d.mux.Unlock()
	return d.dialer.Dial(ctx, d.sshd.Host(), d.sshd.Port(), creds)
}

func (d *redirectingDialer) Dialed() []Endpoint {
	d.mux.Lock()
	defer d.mux.Unlock()
	return append([]Endpoint(nil), d.dialed...)
}

// fakeDialer hands out fakeClients, or fails dialing.
type fakeDialer struct {
	err    error
	client *fakeClient
}

func (d *fakeDialer) Dial(ctx context.Context, host string, port int, creds whalefleet.Credentials) (remoteexec.Client, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.client, nil
}

// fakeClient answers any script with a canned response or error.
type fakeClient struct {
	resp   remoteexec.ExecResponse
	err    error
	closed int
}

func (c *fakeClient) Exec(ctx context.Context, script string) (remoteexec.ExecResponse, error) {
	return c.resp, c.err
}

func (c *fakeClient) Close() error {
	c.closed++
	return nil
}

var errDoh = errors.New("doh!")
