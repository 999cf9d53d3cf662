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
	"errors"
	"fmt"
)

// ErrInvalidRequest indicates missing or contradictory node creation
// parameters.
var ErrInvalidRequest = errors.New("invalid request")

// PortResolutionError indicates that a container lacks a host port binding for
// the requested guest port.
type PortResolutionError struct {
	ContainerID string
	GuestPort   int
}

func (e *PortResolutionError) Error() string {
	return fmt.Sprintf("cannot determine host port for guest port %d of container %s",
		e.GuestPort, e.ContainerID)
}

// IsPortResolutionError returns true if the error (or any error it wraps) is
// a PortResolutionError.
func IsPortResolutionError(err error) bool {
	var perr *PortResolutionError
	return errors.As(err, &perr)
}

// ProbeError indicates a failure to probe the guest operating system of a
// node.
type ProbeError struct {
	Endpoint Endpoint // where the node's SSH daemon should have been.
	Err      error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("cannot probe OS details of node at %s: %s", e.Endpoint, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// IsProbeFailure returns true if the error (or any error it wraps) is a
// ProbeError.
func IsProbeFailure(err error) bool {
	var perr *ProbeError
	return errors.As(err, &perr)
}
