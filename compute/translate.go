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
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/engineclient"
	"github.com/thediveo/whalefleet/remoteexec"
)

// NodeTranslator translates container records into nodes.
type NodeTranslator struct {
	cfg    Config
	dialer remoteexec.Dialer
	log    logrus.FieldLogger
}

// NewNodeTranslator returns a new NodeTranslator using the specified
// configuration and dialer for probing nodes. The dialer might be nil if nodes
// are never probed.
func NewNodeTranslator(cfg Config, dialer remoteexec.Dialer, log logrus.FieldLogger) *NodeTranslator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NodeTranslator{
		cfg:    cfg.withDefaults(),
		dialer: dialer,
		log:    log,
	}
}

// Translate the specified container record into a node, optionally probing
// the node's guest operating system.
//
// A running node must have a host port bound to its administrative guest
// port, otherwise Translate fails with a PortResolutionError. As stopped
// containers don't have any port bindings, suspended nodes get a zero login
// port instead. Probing requires the administrative port and thus fails for
// suspended nodes.
func (t *NodeTranslator) Translate(ctx context.Context, rec *engineclient.ContainerRecord, probe bool) (*whalefleet.Node, error) {
	status := NodeStatus(rec)
	node := &whalefleet.Node{
		ID:               rec.ID,
		Name:             rec.Name,
		Group:            rec.Labels[GroupLabel],
		Hostname:         rec.Hostname,
		Status:           status,
		ImageID:          rec.Image,
		PublicAddresses:  []string{t.cfg.EngineHost},
		PrivateAddresses: []string{t.cfg.EngineHost},
		Credentials:      t.cfg.AdminCredentials,
		Location: &whalefleet.Location{
			ID:          t.cfg.EngineHost,
			Description: "container engine host " + t.cfg.EngineHost,
			Scope:       whalefleet.ScopeHost,
		},
	}
	if name := rec.Labels[NameLabel]; name != "" {
		node.Name = name
	}
	ep, err := ResolveEndpoint(rec, t.cfg.EngineHost, t.cfg.AdminPort)
	if err != nil && (status == whalefleet.NodeRunning || probe) {
		return nil, err
	}
	node.LoginPort = ep.Port
	if probe {
		os, err := t.probe(ctx, ep)
		if err != nil {
			return nil, err
		}
		node.OperatingSystem = os
	}
	return node, nil
}

// NodeStatus returns the node status of the specified container record: if
// the record carries a textual status, as when listing containers, the node
// is running if the status contains "Up". Otherwise, as when inspecting
// containers, the node status mirrors the structured running flag.
func NodeStatus(rec *engineclient.ContainerRecord) whalefleet.NodeStatus {
	if rec.Status != "" {
		if strings.Contains(rec.Status, "Up") {
			return whalefleet.NodeRunning
		}
		return whalefleet.NodeSuspended
	}
	if rec.State != nil && rec.State.Running {
		return whalefleet.NodeRunning
	}
	return whalefleet.NodeSuspended
}
