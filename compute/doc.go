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

/*
Package compute exposes a container engine as a generic compute resource:
callers ask for "nodes" and the Adapter translates this into creating,
starting, stopping, inspecting, and removing containers.

# Nodes

A node is a container running an SSH daemon in the foreground. Creating a node
is a three-step protocol: the Adapter first creates the container with the
requested inbound ports exposed, then starts it, and finally inspects it in
order to learn the host port the engine has published the node's SSH port on.
Only then the Adapter connects to the node's SSH daemon and probes the guest
operating system details.

Node states are never tracked but always derived from the current container
state: running containers are RUNNING nodes, all other containers are
SUSPENDED nodes. Removed containers simply are gone.

# Images

Nodes are created from images. Listing the images automatically bootstraps
the base images "whalefleet/centos" and "whalefleet/ubuntu" when missing,
building them from embedded build contexts. Afterwards, leftover containers
without published ports get removed, see LeftoverPolicy. This includes node
containers that were created but never started.

# Configuration

The Adapter gets its Config injected, so there are no compiled-in host
addresses or credentials. DefaultConfig returns a configuration suitable for
a local Docker engine and the default base images.
*/
package compute
