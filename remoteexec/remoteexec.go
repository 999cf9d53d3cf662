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

package remoteexec

import (
	"context"
	"net"
	"strconv"

	"github.com/thediveo/whalefleet"
)

// Dialer connects to remote hosts in order to execute scripts on them.
type Dialer interface {
	// Dial connects to the specified host and port, authenticating with the
	// specified credentials.
	Dial(ctx context.Context, host string, port int, creds whalefleet.Credentials) (Client, error)
}

// Client executes scripts on the remote host it is connected to.
type Client interface {
	// Exec runs the specified script text verbatim on the remote host,
	// returning the captured standard output and exit status. A non-zero exit
	// status is not an error.
	Exec(ctx context.Context, script string) (ExecResponse, error)
	// Close disconnects from the remote host.
	Close() error
}

// ExecResponse is the result of a remote script execution.
type ExecResponse struct {
	Output     string // captured stdout.
	ExitStatus int
}

// Address returns the network address for the specified host and port.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
