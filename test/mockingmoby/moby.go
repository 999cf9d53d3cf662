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
	"strconv"
	"strings"
	"sync"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// FirstEphemeralPort is the first host port assigned to published ports
// without an explicit host port.
const FirstEphemeralPort = 32768

// MockingMoby is a mocked Docker client, implementing only those parts of the
// client API needed for managing containers and images in unit tests.
type MockingMoby struct {
	mux        sync.RWMutex
	containers map[string]MockedContainer // mocked containers by ID
	names      map[string]string          // maps names to IDs
	images     map[string]MockedImage     // mocked images by ID
	nextport   int                        // next ephemeral host port
	buildfail  string                     // build failure message, if any
	calls      []Call                     // journal of API calls
}

// Call is a journal entry of a single mocked API call.
type Call struct {
	Op  string // API method name, such as "ContainerCreate".
	Ref string // container or image reference, if any.
}

func (c Call) String() string {
	if c.Ref == "" {
		return c.Op
	}
	return c.Op + "(" + c.Ref + ")"
}

// NewMockingMoby returns a new mocked Docker client without any containers
// and images.
func NewMockingMoby() *MockingMoby {
	return &MockingMoby{
		containers: map[string]MockedContainer{},
		names:      map[string]string{},
		images:     map[string]MockedImage{},
		nextport:   FirstEphemeralPort,
	}
}

// NegotiateAPIVersion does nothing.
func (mm *MockingMoby) NegotiateAPIVersion(ctx context.Context) {}

// DaemonHost returns a mocked daemon host URL.
func (mm *MockingMoby) DaemonHost() string { return "mock://mocked" }

// Close does nothing.
func (mm *MockingMoby) Close() error {
	return nil
}

func isCtxCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// record the specified API call in the journal.
func (mm *MockingMoby) record(op string, ref string) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	mm.calls = append(mm.calls, Call{Op: op, Ref: ref})
}

// Calls returns a copy of the journal of API calls so far.
func (mm *MockingMoby) Calls() []Call {
	mm.mux.RLock()
	defer mm.mux.RUnlock()
	return slices.Clone(mm.calls)
}

// CallOps returns only the names of the API calls in the journal so far.
func (mm *MockingMoby) CallOps() []string {
	mm.mux.RLock()
	defer mm.mux.RUnlock()
	ops := make([]string, 0, len(mm.calls))
	for _, call := range mm.calls {
		ops = append(ops, call.Op)
	}
	return ops
}

// ResetCalls clears the journal of API calls.
func (mm *MockingMoby) ResetCalls() {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	mm.calls = nil
}

// FailBuilds lets all subsequent image builds fail with the specified error
// message reported in the build progress stream. An empty message lets builds
// succeed again.
func (mm *MockingMoby) FailBuilds(message string) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	mm.buildfail = message
}

// AddContainer adds a mocked container. In case the container is running or
// paused, its port bindings get resolved.
func (mm *MockingMoby) AddContainer(c MockedContainer) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	switch c.Status {
	case MockedRunning, MockedPaused:
		if c.Ports == nil {
			c.Ports = mm.resolvePorts(c)
		}
	}
	mm.containers[c.ID] = c
	mm.names[c.Name] = c.ID
}

// StopContainer stops a mocked container, so it gets into the "exited" state
// but still exists.
func (mm *MockingMoby) StopContainer(nameorid string) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	if c, ok := mm.lookupLocked(nameorid); ok {
		c.Status = MockedExited
		c.PID = 0
		c.Ports = nil
		mm.containers[c.ID] = c
	}
}

// RemoveContainer removes a mocked container, regardless of its state.
func (mm *MockingMoby) RemoveContainer(nameorid string) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	if c, ok := mm.lookupLocked(nameorid); ok {
		delete(mm.containers, c.ID)
		delete(mm.names, c.Name)
	}
}

// PauseContainer pauses a running mocked container.
func (mm *MockingMoby) PauseContainer(nameorid string) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	if c, ok := mm.lookupLocked(nameorid); ok && c.Status == MockedRunning {
		c.Status = MockedPaused
		mm.containers[c.ID] = c
	}
}

// Container returns a copy of the mocked container with the specified name or
// ID, if it exists.
func (mm *MockingMoby) Container(nameorid string) (MockedContainer, bool) {
	return mm.lookup(nameorid)
}

// ContainerIDs returns the IDs of all mocked containers.
func (mm *MockingMoby) ContainerIDs() []string {
	mm.mux.RLock()
	defer mm.mux.RUnlock()
	ids := make([]string, 0, len(mm.containers))
	for id := range mm.containers {
		ids = append(ids, id)
	}
	return ids
}

// AddImage adds a mocked image.
func (mm *MockingMoby) AddImage(img MockedImage) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	mm.images[img.ID] = img
}

// Image returns a copy of the mocked image with the specified ID or repo tag,
// if it exists.
func (mm *MockingMoby) Image(ref string) (MockedImage, bool) {
	mm.mux.RLock()
	defer mm.mux.RUnlock()
	return mm.lookupImageLocked(ref)
}

// HasImage returns true if there is a mocked image with the specified ID or
// repo tag.
func (mm *MockingMoby) HasImage(ref string) bool {
	_, ok := mm.Image(ref)
	return ok
}

func (mm *MockingMoby) lookup(nameorid string) (MockedContainer, bool) {
	mm.mux.RLock()
	defer mm.mux.RUnlock()
	return mm.lookupLocked(nameorid)
}

func (mm *MockingMoby) lookupLocked(nameorid string) (MockedContainer, bool) {
	c, ok := mm.containers[nameorid]
	if !ok {
		if id, ok := mm.names[strings.TrimPrefix(nameorid, "/")]; ok {
			c, ok = mm.containers[id]
			return c, ok
		}
	}
	return c, ok
}

// lookupImageLocked finds an image by its ID or one of its repo tags, where
// a repo without tag matches the "latest" tag.
func (mm *MockingMoby) lookupImageLocked(ref string) (MockedImage, bool) {
	if img, ok := mm.images[ref]; ok {
		return img, true
	}
	if !strings.Contains(ref, ":") {
		ref += ":latest"
	}
	for _, img := range mm.images {
		if slices.Contains(img.RepoTags, ref) {
			return img, true
		}
	}
	return MockedImage{}, false
}

// resolvePorts returns the host port bindings for the exposed and explicitly
// bound ports of the specified container, assigning ephemeral host ports
// where necessary.
func (mm *MockingMoby) resolvePorts(c MockedContainer) nat.PortMap {
	ports := nat.PortMap{}
	for port, bindings := range c.PortBindings {
		resolved := make([]nat.PortBinding, 0, len(bindings))
		for _, binding := range bindings {
			if binding.HostIP == "" {
				binding.HostIP = "0.0.0.0"
			}
			if binding.HostPort == "" {
				binding.HostPort = strconv.Itoa(mm.nextport)
				mm.nextport++
			}
			resolved = append(resolved, binding)
		}
		ports[port] = resolved
	}
	for port := range c.ExposedPorts {
		if _, ok := ports[port]; ok {
			continue
		}
		if !c.PublishAllPorts {
			ports[port] = nil
			continue
		}
		ports[port] = []nat.PortBinding{{
			HostIP:   "0.0.0.0",
			HostPort: strconv.Itoa(mm.nextport),
		}}
		mm.nextport++
	}
	return ports
}

// newID returns a new random container or image ID, in the usual 64 hex
// characters format.
func newID() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func noSuchContainer(nameorid string) error {
	return fmt.Errorf("no such container: %s: %w", nameorid, cerrdefs.ErrNotFound)
}

func noSuchImage(ref string) error {
	return fmt.Errorf("no such image: %s: %w", ref, cerrdefs.ErrNotFound)
}
