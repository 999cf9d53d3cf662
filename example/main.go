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

package main

import (
	"context"
	"fmt"

	"github.com/thediveo/whalefleet/compute"
	"github.com/thediveo/whalefleet/compute/moby"
)

func main() {
	// connect to the local Docker engine; nodes will be reachable via the
	// loopback address.
	adapter, err := moby.New("unix:///var/run/docker.sock", compute.DefaultConfig())
	if err != nil {
		panic(err)
	}
	defer adapter.Close()
	ctx := context.Background()

	// listing images bootstraps the base images when they're missing, so
	// this might take a while the first time.
	images, err := adapter.ListImages(ctx)
	if err != nil {
		panic(err)
	}
	for _, image := range images {
		fmt.Println(image)
	}
	fmt.Println()

	nodes, err := adapter.ListNodes(ctx)
	if err != nil {
		panic(err)
	}
	for _, node := range nodes {
		fmt.Println(node)
	}
}
