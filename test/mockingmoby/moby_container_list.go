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
	"context"
	"sort"
	"strconv"

	"github.com/docker/docker/api/types/container"
)

// ContainerList returns the list of mocked containers, honoring the All and
// Limit options. The list is sorted by container name for reproducibility.
func (mm *MockingMoby) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return nil, err
	}
	mm.record("ContainerList", "")
	if err := callHook(ctx, ContainerListPre); err != nil {
		return nil, err
	}
	mm.mux.RLock()
	cntrs := make([]container.Summary, 0, len(mm.containers))
	for _, c := range mm.containers {
		running := c.Status == MockedRunning || c.Status == MockedPaused
		if !options.All && !running {
			continue
		}
		cntr := container.Summary{
			ID:      c.ID,
			Names:   []string{"/" + c.Name},
			Image:   c.Image,
			ImageID: c.Image,
			Labels:  c.Labels,
			State:   MockedStatus[c.Status],
			Status:  MockedStates[c.Status],
			Ports:   summaryPorts(c),
		}
		cntrs = append(cntrs, cntr)
	}
	mm.mux.RUnlock()
	sort.Slice(cntrs, func(i, j int) bool { return cntrs[i].Names[0] < cntrs[j].Names[0] })
	if options.Limit > 0 && len(cntrs) > options.Limit {
		cntrs = cntrs[:options.Limit]
	}
	if err := callHook(ctx, ContainerListPost); err != nil {
		return nil, err
	}
	return cntrs, nil
}

// summaryPorts flattens the resolved port bindings of a container into the
// port list of container summaries. Exposed but unpublished ports are listed
// without public port.
func summaryPorts(c MockedContainer) []container.Port {
	ports := []container.Port{}
	for port, bindings := range c.Ports {
		if len(bindings) == 0 {
			ports = append(ports, container.Port{
				PrivatePort: uint16(port.Int()),
				Type:        port.Proto(),
			})
			continue
		}
		for _, binding := range bindings {
			hostport, _ := strconv.ParseUint(binding.HostPort, 10, 16)
			ports = append(ports, container.Port{
				IP:          binding.HostIP,
				PrivatePort: uint16(port.Int()),
				PublicPort:  uint16(hostport),
				Type:        port.Proto(),
			})
		}
	}
	if c.Ports == nil {
		for port := range c.ExposedPorts {
			ports = append(ports, container.Port{
				PrivatePort: uint16(port.Int()),
				Type:        port.Proto(),
			})
		}
	}
	return ports
}
