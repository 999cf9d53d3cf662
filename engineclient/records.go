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

package engineclient

import (
	"time"

	"github.com/docker/go-connections/nat"
)

// ContainerRecord is a read-only snapshot of a container as returned by the
// container engine. Depending on whether the record originates from listing or
// inspecting, different fields are set: listing gives the textual Status and
// the flat Ports list, while inspecting gives State, NetworkSettings and
// HostConfig.
type ContainerRecord struct {
	ID              string            // unique identifier of container.
	Name            string            // name of container without any prefixing "/".
	Image           string            // image ID (or reference) the container was created from.
	Hostname        string            // host name, if known.
	Labels          map[string]string // labels assigned to this container.
	Status          string            // chatty status, such as "Up 3 seconds"; list only.
	State           *ContainerState   // structured state; inspect only.
	Ports           []Port            // flat published ports; list only.
	NetworkSettings *NetworkSettings  // structured port bindings; inspect only.
	HostConfig      *HostConfig       // host configuration; inspect only.
}

// ContainerState is the structured container state.
type ContainerState struct {
	Status  string // "created", "running", "paused", "exited", ...
	Running bool
	Paused  bool
	Pid     int
}

// Port is a port entry from the flat list of ports of a listed container.
type Port struct {
	IP          string // host IP the container port is published on.
	PrivatePort uint16 // port inside the container.
	PublicPort  uint16 // port on the host, or zero if not published.
	Type        string // "tcp", "udp", "sctp"
}

// NetworkSettings carries the structured port bindings as resolved by the
// container engine at container start.
type NetworkSettings struct {
	IPAddress string      // container's IP address in the default network.
	Ports     nat.PortMap // e.g. "22/tcp" -> [{HostIP: "0.0.0.0", HostPort: "32768"}]
}

// HostConfig is the host configuration of a container as seen when inspecting
// it.
type HostConfig struct {
	PortBindings    nat.PortMap // as requested, not as resolved.
	Privileged      bool
	PublishAllPorts bool
	Links           []string
}

// ImageRecord is a read-only snapshot of an image.
type ImageRecord struct {
	ID          string
	RepoTags    []string // "repo:tag" references, in the order reported by the engine.
	Created     time.Time
	Size        int64
	VirtualSize int64
}

// ContainerCreateSpec describes a container to be created. It is built fresh
// for each creation and must not be modified after submission.
type ContainerCreateSpec struct {
	Name         string   // optional container name.
	Image        string   // image ID or reference.
	Cmd          []string // command to run.
	AttachStdout bool
	AttachStderr bool
	ExposedPorts nat.PortSet // ports declared as exposed, such as "22/tcp".
	WorkingDir   string
	VolumesFrom  []string // containers to mount the volumes from.
	Labels       map[string]string
}

// HostBindingSpec describes how a container's ports get published on the
// host.
type HostBindingSpec struct {
	PortBindings    nat.PortMap // explicit port -> host port bindings.
	Privileged      bool
	PublishAllPorts bool // publish all exposed ports on random host ports.
}
