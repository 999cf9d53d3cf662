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
	"fmt"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// MockedPID is the PID of the initial process of started mocked containers.
const MockedPID = 4242

// ContainerCreate creates a new mocked container in "created" state from an
// existing mocked image. Names must be unique; if no name is given, a name
// gets derived from the container's ID.
func (mm *MockingMoby) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return container.CreateResponse{}, err
	}
	mm.record("ContainerCreate", containerName)
	if err := callHook(ctx, ContainerCreatePre); err != nil {
		return container.CreateResponse{}, err
	}
	if config == nil {
		return container.CreateResponse{}, fmt.Errorf("missing container config: %w", cerrdefs.ErrInvalidArgument)
	}
	mm.mux.Lock()
	defer mm.mux.Unlock()
	img, ok := mm.lookupImageLocked(config.Image)
	if !ok {
		return container.CreateResponse{}, noSuchImage(config.Image)
	}
	id := newID()
	if containerName == "" {
		containerName = "mocked_" + id[:12]
	}
	if _, ok := mm.names[containerName]; ok {
		return container.CreateResponse{}, fmt.Errorf("container name %q already in use: %w",
			containerName, cerrdefs.ErrConflict)
	}
	c := MockedContainer{
		ID:           id,
		Name:         containerName,
		Image:        img.ID,
		Hostname:     id[:12],
		Status:       MockedCreated,
		Labels:       config.Labels,
		ExposedPorts: config.ExposedPorts,
	}
	if hostConfig != nil {
		c.PortBindings = hostConfig.PortBindings
		c.PublishAllPorts = hostConfig.PublishAllPorts
		c.Privileged = hostConfig.Privileged
	}
	mm.containers[c.ID] = c
	mm.names[c.Name] = c.ID
	return container.CreateResponse{ID: c.ID}, nil
}

// ContainerStart starts a created or exited mocked container, resolving its
// port bindings. Starting an already running container is a no-op.
func (mm *MockingMoby) ContainerStart(ctx context.Context, nameorid string, options container.StartOptions) error {
	if err := isCtxCancelled(ctx); err != nil {
		return err
	}
	mm.record("ContainerStart", nameorid)
	if err := callHook(ctx, ContainerStartPre); err != nil {
		return err
	}
	mm.mux.Lock()
	defer mm.mux.Unlock()
	c, ok := mm.lookupLocked(nameorid)
	if !ok {
		return noSuchContainer(nameorid)
	}
	switch c.Status {
	case MockedRunning, MockedPaused:
		return nil
	}
	c.Status = MockedRunning
	c.PID = MockedPID
	c.Ports = mm.resolvePorts(c)
	mm.containers[c.ID] = c
	return nil
}

// ContainerStop stops a mocked container. Stopping a container that isn't
// running is a no-op.
func (mm *MockingMoby) ContainerStop(ctx context.Context, nameorid string, options container.StopOptions) error {
	if err := isCtxCancelled(ctx); err != nil {
		return err
	}
	mm.record("ContainerStop", nameorid)
	if err := callHook(ctx, ContainerStopPre); err != nil {
		return err
	}
	if _, ok := mm.lookup(nameorid); !ok {
		return noSuchContainer(nameorid)
	}
	mm.StopContainer(nameorid)
	return nil
}

// ContainerRemove removes a mocked container. Running containers are only
// removed when forced.
func (mm *MockingMoby) ContainerRemove(ctx context.Context, nameorid string, options container.RemoveOptions) error {
	if err := isCtxCancelled(ctx); err != nil {
		return err
	}
	mm.record("ContainerRemove", nameorid)
	if err := callHook(ctx, ContainerRemovePre); err != nil {
		return err
	}
	c, ok := mm.lookup(nameorid)
	if !ok {
		return noSuchContainer(nameorid)
	}
	if !options.Force && (c.Status == MockedRunning || c.Status == MockedPaused) {
		return fmt.Errorf("cannot remove running container %s: %w", nameorid, cerrdefs.ErrConflict)
	}
	mm.RemoveContainer(c.ID)
	return nil
}

// ContainerCommit creates a new mocked image from a mocked container.
func (mm *MockingMoby) ContainerCommit(ctx context.Context, nameorid string, options container.CommitOptions) (container.CommitResponse, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return container.CommitResponse{}, err
	}
	mm.record("ContainerCommit", nameorid)
	if err := callHook(ctx, ContainerCommitPre); err != nil {
		return container.CommitResponse{}, err
	}
	if _, ok := mm.lookup(nameorid); !ok {
		return container.CommitResponse{}, noSuchContainer(nameorid)
	}
	img := MockedImage{
		ID:      "sha256:" + newID(),
		Created: time.Now(),
	}
	if options.Reference != "" {
		img.RepoTags = []string{normalizedTag(options.Reference)}
	}
	mm.AddImage(img)
	return container.CommitResponse{ID: img.ID}, nil
}
