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
	"io/fs"

	"github.com/sirupsen/logrus"
	"github.com/thediveo/whalefleet/engineclient"
	"github.com/thediveo/whalefleet/remoteexec"
	"golang.org/x/sync/singleflight"
)

// Adapter exposes a container engine as a generic compute resource of nodes
// and images.
//
// All operations are synchronous and fetch the current state from the
// container engine; an Adapter doesn't cache anything. Node creation isn't
// atomic: if the caller gets interrupted between creating and starting a
// container, an unstarted container remains.
type Adapter struct {
	engine     engineclient.ContainerEngineClient
	translator *NodeTranslator
	cfg        Config
	log        logrus.FieldLogger
	leftovers  LeftoverPolicy
	baseimages []BaseImage
	buildctx   fs.FS
	builds     singleflight.Group // collapses concurrent base image builds.
}

// New returns a new Adapter for the specified container engine, probing new
// nodes using the specified dialer. Zero fields in the configuration are set
// to their defaults.
func New(engine engineclient.ContainerEngineClient, dialer remoteexec.Dialer, cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		engine:     engine,
		cfg:        cfg.withDefaults(),
		log:        logrus.StandardLogger(),
		leftovers:  PortlessLeftovers,
		baseimages: DefaultBaseImages(),
		buildctx:   DefaultBuildContexts(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.translator = NewNodeTranslator(a.cfg, dialer, a.log)
	return a
}

// Option represents options to New when creating new Adapters.
type Option func(*Adapter)

// WithLogger sets the logger to use.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Adapter) {
		a.log = log
	}
}

// WithLeftoverPolicy sets the policy deciding which containers are leftovers
// to be removed after building base images. A nil policy disables the
// cleanup.
func WithLeftoverPolicy(policy LeftoverPolicy) Option {
	return func(a *Adapter) {
		if policy == nil {
			policy = NoLeftovers
		}
		a.leftovers = policy
	}
}

// WithBaseImages sets the base images to bootstrap when missing.
func WithBaseImages(images ...BaseImage) Option {
	return func(a *Adapter) {
		a.baseimages = images
	}
}

// WithBuildContext sets the file system containing the build context
// folders of the base images.
func WithBuildContext(fsys fs.FS) Option {
	return func(a *Adapter) {
		a.buildctx = fsys
	}
}

// Config returns the (defaulted) configuration of this Adapter.
func (a *Adapter) Config() Config { return a.cfg }

// Engine returns the container engine client of this Adapter.
func (a *Adapter) Engine() engineclient.ContainerEngineClient { return a.engine }

// Close the Adapter's container engine client.
func (a *Adapter) Close() error {
	return a.engine.Close()
}
