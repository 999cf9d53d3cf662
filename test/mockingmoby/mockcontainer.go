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

package mockingmoby

import (
	"time"

	"github.com/docker/go-connections/nat"
)

// MockedContainerStatus is the simplified lifecycle state of a mocked
// container.
type MockedContainerStatus int

// Mocked container states.
const (
	MockedCreated MockedContainerStatus = iota
	MockedRunning
	MockedPaused
	MockedDead
	MockedExited
)

// MockedStates maps the mocked container states to the chatty status texts
// when listing containers.
var MockedStates = map[MockedContainerStatus]string{
	MockedCreated: "Created",
	MockedRunning: "Up for ages",
	MockedPaused:  "Up for ages (Paused)",
	MockedDead:    "Dead",
	MockedExited:  "Exited (42) 3 seconds ago",
}

// MockedStatus maps the mocked container states to the container state
// identifiers when inspecting containers.
var MockedStatus = map[MockedContainerStatus]string{
	MockedCreated: "created",
	MockedRunning: "running",
	MockedPaused:  "paused",
	MockedDead:    "dead",
	MockedExited:  "exited",
}

// MockedContainer describes a mocked container.
type MockedContainer struct {
	ID              string                // unique identifier of container
	Name            string                // name of container without any prefixing "/"
	Image           string                // image ID the container was created from
	Hostname        string                // optional host name
	Status          MockedContainerStatus // container status (without any thrills)
	PID             int                   // PID of initial container process if container is "alive"
	Labels          map[string]string     // container labels
	ExposedPorts    nat.PortSet           // exposed container ports
	PortBindings    nat.PortMap           // port bindings as requested
	PublishAllPorts bool                  // publish all exposed ports on random host ports
	Privileged      bool
	Ports           nat.PortMap // resolved port bindings while running
}

// MockedImage describes a mocked image.
type MockedImage struct {
	ID       string
	RepoTags []string
	Created  time.Time
	Size     int64
}
