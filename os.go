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

import "strings"

// OsFamily identifies a family of guest operating systems.
type OsFamily string

// The OS families we know of; everything else is unrecognized.
const (
	OsCentOS       OsFamily = "centos"
	OsUbuntu       OsFamily = "ubuntu"
	OsUnrecognized OsFamily = "unrecognized"
)

// osFamilies is our (small) vocabulary of OS families, in order of matching
// precedence.
var osFamilies = []OsFamily{OsCentOS, OsUbuntu}

// ParseOsFamily returns the OS family exactly matching the specified name,
// ignoring case. Otherwise, it returns OsUnrecognized.
func ParseOsFamily(name string) OsFamily {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, family := range osFamilies {
		if name == string(family) {
			return family
		}
	}
	return OsUnrecognized
}

// OsFamilyIn returns the first OS family whose name is contained in the
// specified description. Otherwise, it returns OsUnrecognized.
func OsFamilyIn(description string) OsFamily {
	for _, family := range osFamilies {
		if strings.Contains(description, string(family)) {
			return family
		}
	}
	return OsUnrecognized
}

// OperatingSystem describes a guest OS, either as claimed by an image or as
// found by probing a live node.
type OperatingSystem struct {
	Family      OsFamily `json:"family" yaml:"family"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"` // zero if unknown.
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Arch        string   `json:"arch,omitempty" yaml:"arch,omitempty"`
	Is64Bit     bool     `json:"is64Bit" yaml:"is64Bit"`
}
