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

package engineclient

import (
	"context"

	cerrdefs "github.com/containerd/errdefs"
)

// ContainerEngineClient defines the generic methods needed in order to manage
// containers and images of a container engine, regardless of the specific
// type of engine. All methods are synchronous and block until the engine has
// answered, the context is done, or the transport failed.
type ContainerEngineClient interface {
	// Version of the container engine.
	Version(ctx context.Context) (Version, error)

	// Inspect a container, given its name or ID. The returned record carries
	// the structured State, NetworkSettings and HostConfig, but no textual
	// Status.
	Inspect(ctx context.Context, nameorid string) (*ContainerRecord, error)
	// List containers. The returned records carry the textual Status and the
	// flat Ports list, but neither State nor NetworkSettings.
	List(ctx context.Context, opts ListOptions) ([]*ContainerRecord, error)
	// Create a new container with the specified host binding, but don't start
	// it yet. The host binding might be nil.
	Create(ctx context.Context, spec ContainerCreateSpec, binding *HostBindingSpec) (*ContainerRecord, error)
	// Remove a container; force removal of running containers if requested.
	Remove(ctx context.Context, nameorid string, force bool) error
	// Start a created or stopped container.
	Start(ctx context.Context, nameorid string) error
	// Stop a running container.
	Stop(ctx context.Context, nameorid string) error
	// Commit a container's changes into a new image.
	Commit(ctx context.Context, nameorid string, repo string, message string) (*ImageRecord, error)

	// Build an image from a build context directory, blocking until the build
	// has finished.
	Build(ctx context.Context, opts BuildOptions) error
	// Images lists the images; all includes intermediate images.
	Images(ctx context.Context, all bool) ([]*ImageRecord, error)
	// Pull (or import) an image, blocking until done.
	Pull(ctx context.Context, opts PullOptions) error
	// RemoveImage removes the image with the specified name or ID.
	RemoveImage(ctx context.Context, name string) error

	// Container engine API path.
	API() string
	// Clean up and release any engine client resources, if necessary.
	Close() error
}

// ListOptions limits the list of containers returned.
type ListOptions struct {
	All    bool   // include non-running containers.
	Limit  int    // return at most this many most recently created containers.
	Since  string // only containers created after this container ID.
	Before string // only containers created before this container ID.
}

// BuildOptions tell how to build an image.
type BuildOptions struct {
	Tag        string // repo:tag of image to build.
	ContextDir string // local build context directory.
	Dockerfile string // path to build recipe, relative to ContextDir; defaults to "Dockerfile".
	NoCache    bool
	Quiet      bool // suppress verbose build output.
}

// PullOptions tell where to create an image from.
type PullOptions struct {
	FromImage string // name of image to pull.
	FromSrc   string // URL to import from, "-" for stdin; exclusive with FromImage.
	Repo      string
	Tag       string
	Registry  string // optional registry host to pull from.
}

// Version is the container engine's version information.
type Version struct {
	Version       string `json:"version" yaml:"version"`
	APIVersion    string `json:"apiVersion" yaml:"apiVersion"`
	Os            string `json:"os" yaml:"os"`
	Arch          string `json:"arch" yaml:"arch"`
	KernelVersion string `json:"kernelVersion,omitempty" yaml:"kernelVersion,omitempty"`
	GoVersion     string `json:"goVersion,omitempty" yaml:"goVersion,omitempty"`
}

// IsNotFound returns true if the error indicates that a container or image
// doesn't exist (anymore).
func IsNotFound(err error) bool {
	return cerrdefs.IsNotFound(err)
}
