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

package matcher

import (
	o "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
	"github.com/thediveo/whalefleet"
)

// BeANode succeeds when the actual value is a Node (or a pointer to it) and
// additionally all passed matchers also succeed.
func BeANode(matchers ...types.GomegaMatcher) types.GomegaMatcher {
	return o.WithTransform(func(actual any) (whalefleet.Node, error) {
		switch node := actual.(type) {
		case whalefleet.Node:
			return node, nil
		case *whalefleet.Node:
			if node != nil {
				return *node, nil
			}
		}
		return whalefleet.Node{}, errNotANode
	}, o.SatisfyAll(matchers...))
}

// HaveID succeeds if the actual value has an "ID" field with the specified
// value.
func HaveID(id string) types.GomegaMatcher {
	return o.HaveField("ID", id)
}

// HaveName succeeds if the actual value has a "Name" field with the specified
// value.
func HaveName(name string) types.GomegaMatcher {
	return o.HaveField("Name", name)
}

// HaveGroup succeeds if the actual value has a "Group" field with the
// specified value.
func HaveGroup(group string) types.GomegaMatcher {
	return o.HaveField("Group", group)
}

// HaveStatus succeeds if the actual value has a "Status" field with the
// specified value.
func HaveStatus(status whalefleet.NodeStatus) types.GomegaMatcher {
	return o.HaveField("Status", status)
}

// HaveLoginPort succeeds if the actual value has a "LoginPort" field with the
// specified port number.
func HaveLoginPort(port int) types.GomegaMatcher {
	return o.HaveField("LoginPort", port)
}

// HaveOsFamily succeeds if the actual value has an "OperatingSystem" field
// pointing to operating system details of the specified family.
func HaveOsFamily(family whalefleet.OsFamily) types.GomegaMatcher {
	return o.HaveField("OperatingSystem", o.And(
		o.Not(o.BeNil()), o.HaveField("Family", family)))
}
