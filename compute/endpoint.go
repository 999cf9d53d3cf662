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
	"strconv"

	"github.com/docker/go-connections/nat"
	"github.com/thediveo/whalefleet/engineclient"
	"github.com/thediveo/whalefleet/remoteexec"
)

// Endpoint is a reachable host address and port.
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) String() string {
	return remoteexec.Address(e.Host, e.Port)
}

// ResolveEndpoint returns the endpoint on the specified host for reaching the
// specified guest TCP port of a container. It prefers the structured port
// bindings of inspected containers and falls back to the flat port list of
// listed containers. If neither has a published host port for the guest port,
// ResolveEndpoint returns a PortResolutionError.
//
// The Docker engine usually binds published ports on both IPv4 and IPv6, so
// there might be multiple bindings for the guest port, all sharing the same
// host port. ResolveEndpoint then takes the first binding with a valid host
// port.
func ResolveEndpoint(rec *engineclient.ContainerRecord, host string, guestPort int) (Endpoint, error) {
	if rec.NetworkSettings != nil {
		port := nat.Port(strconv.Itoa(guestPort) + "/tcp")
		for _, binding := range rec.NetworkSettings.Ports[port] {
			hostport, err := strconv.ParseUint(binding.HostPort, 10, 16)
			if err != nil || hostport == 0 {
				continue
			}
			return Endpoint{Host: host, Port: int(hostport)}, nil
		}
	}
	for _, port := range rec.Ports {
		if int(port.PrivatePort) == guestPort && port.PublicPort != 0 &&
			(port.Type == "" || port.Type == "tcp") {
			return Endpoint{Host: host, Port: int(port.PublicPort)}, nil
		}
	}
	return Endpoint{}, &PortResolutionError{
		ContainerID: rec.ID,
		GuestPort:   guestPort,
	}
}
