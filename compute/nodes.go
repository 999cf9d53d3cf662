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

package compute

import (
	"context"
	"fmt"
	"strconv"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/engineclient"
)

// Template describes the node to create.
type Template struct {
	ImageID  string               // image to create the node from.
	Hardware *whalefleet.Hardware // optional, purely informational.
	Options  *TemplateOptions
}

// TemplateOptions are the node creation options.
type TemplateOptions struct {
	InboundPorts []int // TCP ports to expose, usually including the SSH port.
}

// CreateNode creates and starts a new node in the specified group, returning
// the node with its probed guest OS details and the credentials for logging
// into it. If name is empty, a name gets generated from the group name.
//
// Except for the administrative port, all inbound ports get published on the
// same host ports. The administrative port gets published on a random host
// port instead, same as all ports exposed by the image.
func (a *Adapter) CreateNode(ctx context.Context, group, name string, tmpl *Template) (*whalefleet.Node, whalefleet.Credentials, error) {
	switch {
	case tmpl == nil:
		return nil, whalefleet.Credentials{}, fmt.Errorf("%w: missing template", ErrInvalidRequest)
	case tmpl.Options == nil:
		return nil, whalefleet.Credentials{}, fmt.Errorf("%w: missing template options", ErrInvalidRequest)
	case tmpl.ImageID == "":
		return nil, whalefleet.Credentials{}, fmt.Errorf("%w: missing image ID", ErrInvalidRequest)
	}
	if name == "" {
		name = group + "-" + uuid.NewString()[:8]
	}
	log := a.log.WithField("name", name)

	log.Debugf(">> creating new container from image %s", tmpl.ImageID)
	rec, err := a.engine.Create(ctx, a.createSpec(group, name, tmpl), a.hostBinding(tmpl.Options.InboundPorts))
	if err != nil {
		return nil, whalefleet.Credentials{}, err
	}
	log.Debugf("<< container %s", rec.ID)

	log.Debugf(">> starting container %s", rec.ID)
	if err := a.engine.Start(ctx, rec.ID); err != nil {
		return nil, whalefleet.Credentials{}, err
	}
	// Only now the engine has bound the ports, so we need to fetch the
	// container's current state.
	rec, err = a.engine.Inspect(ctx, rec.ID)
	if err != nil {
		return nil, whalefleet.Credentials{}, err
	}
	log.Debugf("<< started container %s", rec.ID)

	node, err := a.translator.Translate(ctx, rec, true)
	if err != nil {
		return nil, whalefleet.Credentials{}, err
	}
	return node, a.cfg.AdminCredentials, nil
}

// createSpec returns a fresh container creation spec for a node.
func (a *Adapter) createSpec(group, name string, tmpl *Template) engineclient.ContainerCreateSpec {
	exposed := nat.PortSet{}
	for _, port := range tmpl.Options.InboundPorts {
		exposed[tcpPort(port)] = struct{}{}
	}
	return engineclient.ContainerCreateSpec{
		Name:         name,
		Image:        tmpl.ImageID,
		Cmd:          append([]string(nil), a.cfg.BootstrapCommand...),
		AttachStdout: true,
		AttachStderr: true,
		ExposedPorts: exposed,
		Labels: map[string]string{
			GroupLabel: group,
			NameLabel:  name,
		},
	}
}

// hostBinding returns a fresh host binding for a node, publishing all inbound
// ports except for the administrative port on the same host ports.
func (a *Adapter) hostBinding(inboundPorts []int) *engineclient.HostBindingSpec {
	bindings := nat.PortMap{}
	for _, port := range inboundPorts {
		if port == a.cfg.AdminPort {
			continue
		}
		bindings[tcpPort(port)] = []nat.PortBinding{{HostPort: strconv.Itoa(port)}}
	}
	return &engineclient.HostBindingSpec{
		PortBindings:    bindings,
		Privileged:      true,
		PublishAllPorts: true,
	}
}

func tcpPort(port int) nat.Port {
	return nat.Port(strconv.Itoa(port) + "/tcp")
}

// ListNodes returns all nodes, that is, all containers labelled with a node
// group. The nodes' guest OS isn't probed.
func (a *Adapter) ListNodes(ctx context.Context) ([]*whalefleet.Node, error) {
	return a.listNodes(ctx, func(*engineclient.ContainerRecord) bool { return true })
}

// ListNodesByIDs returns only the nodes with the specified IDs. Unknown IDs
// are silently skipped.
func (a *Adapter) ListNodesByIDs(ctx context.Context, ids []string) ([]*whalefleet.Node, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return a.listNodes(ctx, func(rec *engineclient.ContainerRecord) bool {
		_, ok := wanted[rec.ID]
		return ok
	})
}

func (a *Adapter) listNodes(ctx context.Context, filter func(*engineclient.ContainerRecord) bool) ([]*whalefleet.Node, error) {
	containers, err := a.engine.List(ctx, engineclient.ListOptions{All: true})
	if err != nil {
		return nil, err
	}
	nodes := make([]*whalefleet.Node, 0, len(containers))
	for _, rec := range containers {
		if !isNode(rec) || !filter(rec) {
			continue
		}
		node, err := a.translator.Translate(ctx, rec, false)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// GetNode returns the node with the specified ID, or nil if there is no such
// node. Containers not labelled with a node group aren't nodes. The node's
// guest OS isn't probed.
func (a *Adapter) GetNode(ctx context.Context, id string) (*whalefleet.Node, error) {
	rec, err := a.engine.Inspect(ctx, id)
	if err != nil {
		if engineclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !isNode(rec) {
		return nil, nil
	}
	return a.translator.Translate(ctx, rec, false)
}

// isNode returns true if the container is labelled with a node group.
func isNode(rec *engineclient.ContainerRecord) bool {
	_, ok := rec.Labels[GroupLabel]
	return ok
}

// DestroyNode stops and then removes the node with the specified ID. Both
// steps are always carried out, regardless of the node's state and errors in
// stopping it; DestroyNode then returns the first error encountered.
func (a *Adapter) DestroyNode(ctx context.Context, id string) error {
	log := a.log.WithField("container", id)
	log.Debug(">> destroying node")
	stoperr := a.engine.Stop(ctx, id)
	removeerr := a.engine.Remove(ctx, id, true)
	for _, err := range []error{stoperr, removeerr} {
		if err != nil {
			log.WithError(err).Debug("<< node destruction failed")
			return err
		}
	}
	log.Debug("<< destroyed node")
	return nil
}

// RebootNode (re)starts the node with the specified ID. As there is no reboot
// of containers, a running node is left untouched.
func (a *Adapter) RebootNode(ctx context.Context, id string) error {
	return a.engine.Start(ctx, id)
}

// ResumeNode starts the suspended node with the specified ID.
func (a *Adapter) ResumeNode(ctx context.Context, id string) error {
	return a.engine.Start(ctx, id)
}

// SuspendNode stops the node with the specified ID.
func (a *Adapter) SuspendNode(ctx context.Context, id string) error {
	return a.engine.Stop(ctx, id)
}

// ListHardwareProfiles returns the fixed set of hardware profiles.
func (a *Adapter) ListHardwareProfiles(ctx context.Context) []whalefleet.Hardware {
	return whalefleet.DefaultHardware()
}

// ListLocations always returns an empty list, as there is no location concept
// with containers.
func (a *Adapter) ListLocations(ctx context.Context) []whalefleet.Location {
	return []whalefleet.Location{}
}
