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

// Hardware is a hardware profile. Containers don't have any hardware, so
// these profiles are just for show in order to satisfy callers expecting to
// pick some hardware.
type Hardware struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Hypervisor string `json:"hypervisor" yaml:"hypervisor"`
	RAM        int    `json:"ram" yaml:"ram"` // in MiB
}

// DefaultHardware returns the fixed set of hardware profiles, ordered from
// smallest to largest. Callers receive a fresh slice on each call and thus are
// free to modify it.
func DefaultHardware() []Hardware {
	return []Hardware{
		{ID: "t1.micro", Name: "t1.micro", Hypervisor: "lxc", RAM: 512},
		{ID: "m1.small", Name: "m1.small", Hypervisor: "lxc", RAM: 1024},
		{ID: "m1.medium", Name: "m1.medium", Hypervisor: "lxc", RAM: 3840},
		{ID: "m1.large", Name: "m1.large", Hypervisor: "lxc", RAM: 8192},
	}
}
