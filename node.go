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

package whalefleet

import (
	"fmt"
	"strings"
)

// NodeStatus is the lifecycle status of a node. Please note that there is no
// "terminated" status, as a terminated node simply is gone: its container has
// been removed.
type NodeStatus string

// The lifecycle states of a node.
const (
	NodeRunning   NodeStatus = "RUNNING"   // container process(es) up and running.
	NodeSuspended NodeStatus = "SUSPENDED" // container exists but isn't running.
)

// Node is a compute node backed by a container. A Node is never tracked, but
// always derived from the current container state, so it is just a
// snapshot.
//
// The ID is the container's ID, while the LoginPort is the host port the
// node's SSH daemon port has been published on. OperatingSystem details are
// only present when the node has been probed.
type Node struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	Group            string           `json:"group,omitempty" yaml:"group,omitempty"`
	Hostname         string           `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Status           NodeStatus       `json:"status" yaml:"status"`
	ImageID          string           `json:"imageId" yaml:"imageId"`
	PublicAddresses  []string         `json:"publicAddresses" yaml:"publicAddresses"`
	PrivateAddresses []string         `json:"privateAddresses" yaml:"privateAddresses"`
	LoginPort        int              `json:"loginPort" yaml:"loginPort"`
	Credentials      Credentials      `json:"credentials" yaml:"credentials"`
	OperatingSystem  *OperatingSystem `json:"os,omitempty" yaml:"os,omitempty"`
	Location         *Location        `json:"location,omitempty" yaml:"location,omitempty"`
}

// String returns a textual representation of a node, rendering its name, ID,
// group, status and login endpoint.
func (n Node) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "node '%s'/%s", n.Name, n.ID)
	if n.Group != "" {
		fmt.Fprintf(&b, " in group '%s'", n.Group)
	}
	fmt.Fprintf(&b, " %s", n.Status)
	if len(n.PublicAddresses) > 0 {
		fmt.Fprintf(&b, " at %s:%d", n.PublicAddresses[0], n.LoginPort)
	}
	return b.String()
}

// IsRunning returns true if the node currently is running.
func (n Node) IsRunning() bool { return n.Status == NodeRunning }

// Credentials for logging into a node.
type Credentials struct {
	User             string `json:"user" yaml:"user"`
	Password         string `json:"password,omitempty" yaml:"password,omitempty"`
	AuthenticateSudo bool   `json:"authenticateSudo" yaml:"authenticateSudo"` // user may escalate privileges.
}

// String renders the credentials with the password masked.
func (c Credentials) String() string {
	pw := ""
	if c.Password != "" {
		pw = ":********"
	}
	sudo := ""
	if c.AuthenticateSudo {
		sudo = " (sudo)"
	}
	return c.User + pw + sudo
}

// LocationScope describes what kind of thing a Location is.
type LocationScope string

// ScopeHost is the only location scope: the container engine host.
const ScopeHost LocationScope = "HOST"

// Location of a node.
type Location struct {
	ID          string        `json:"id" yaml:"id"`
	Description string        `json:"description" yaml:"description"`
	Scope       LocationScope `json:"scope" yaml:"scope"`
}
