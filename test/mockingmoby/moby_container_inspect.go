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

	"github.com/docker/docker/api/types/container"
)

// ContainerInspect returns the details of a mocked container, consisting of
// its ID, name, state, labels, host configuration and, while running, its
// resolved port bindings.
func (mm *MockingMoby) ContainerInspect(ctx context.Context, nameorid string) (container.InspectResponse, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return container.InspectResponse{}, err
	}
	mm.record("ContainerInspect", nameorid)
	if err := callHook(ctx, ContainerInspectPre); err != nil {
		return container.InspectResponse{}, err
	}
	c, ok := mm.lookup(nameorid)
	if err := callHook(ctx, ContainerInspectPost); err != nil {
		return container.InspectResponse{}, err
	}
	if !ok {
		return container.InspectResponse{}, noSuchContainer(nameorid)
	}
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:    c.ID,
			Name:  "/" + c.Name,
			Image: c.Image,
			State: &container.State{
				Status:  MockedStatus[c.Status],
				Running: c.Status == MockedRunning || c.Status == MockedPaused,
				Paused:  c.Status == MockedPaused,
				Pid:     c.PID,
			},
			HostConfig: &container.HostConfig{
				PortBindings:    c.PortBindings,
				PublishAllPorts: c.PublishAllPorts,
				Privileged:      c.Privileged,
			},
		},
		Config: &container.Config{
			Hostname:     c.Hostname,
			Image:        c.Image,
			Labels:       c.Labels,
			ExposedPorts: c.ExposedPorts,
		},
		NetworkSettings: &container.NetworkSettings{
			NetworkSettingsBase: container.NetworkSettingsBase{
				Ports: c.Ports,
			},
		},
	}, nil
}
