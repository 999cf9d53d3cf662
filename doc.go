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
Package whalefleet treats a Docker container engine as a (very) poor man's
compute cloud: instead of virtual machines you get "nodes" that in reality are
privileged containers running an SSH daemon in the foreground. Callers ask for
nodes with a uniform, provider-agnostic lifecycle (create, list, get, destroy,
reboot, suspend, resume) and never need to know that there aren't any real
machines involved.

This package defines only the engine-neutral model handed out to callers:
[Node], [Image], [Hardware], [Location], [Credentials] and [OperatingSystem].
None of these are ever stored anywhere; they are synthesized afresh from the
container engine's state on every query.

# Compute Adapter

A [github.com/thediveo/whalefleet/compute.Adapter] drives the container
lifecycle in order to satisfy the node lifecycle. It talks to the container
engine only through the
[github.com/thediveo/whalefleet/engineclient.ContainerEngineClient] interface
and probes freshly created nodes for their guest OS via a
[github.com/thediveo/whalefleet/remoteexec.Dialer].

Most applications want to use the convenience constructor from the
compute/moby package instead of wiring things up themselves:

	package main

	import (
	    "context"
	    "fmt"

	    "github.com/thediveo/whalefleet/compute"
	    "github.com/thediveo/whalefleet/compute/moby"
	)

	func main() {
	    fleet, err := moby.New("", compute.DefaultConfig())
	    if err != nil {
	        panic(err)
	    }
	    defer fleet.Close()
	    nodes, err := fleet.ListNodes(context.Background())
	    if err != nil {
	        panic(err)
	    }
	    for _, node := range nodes {
	        fmt.Printf("node %q is %s, ssh on port %d\n",
	            node.Name, node.Status, node.LoginPort)
	    }
	}

# Base Images

Nodes need images that bring along an SSH daemon. The compute adapter
bootstraps its catalog of such base images on demand when listing images: if
one of the base images is missing, it gets built from a build context embedded
into this module. Please note that this is a synchronous and thus potentially
very time-consuming operation.
*/
package whalefleet
