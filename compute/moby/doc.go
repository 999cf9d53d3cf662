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
Package moby provides a convenience constructor for compute Adapters managing
nodes on Docker engines, probing new nodes via SSH.

	fleet, err := moby.New("", compute.DefaultConfig())
	if err != nil {
		panic(err)
	}
	defer fleet.Close()
	nodes, err := fleet.ListNodes(context.Background())
*/
package moby
