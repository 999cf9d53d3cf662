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

package moby

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/go-archive"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/thediveo/whalefleet/engineclient"
)

// Type specifies this container engine's type identifier.
const Type = "docker.com"

// MobyAPIClient is a Docker client offering the container, image and system
// APIs needed. For production, Docker's client.Client is a compatible
// implementation, for unit testing our very own mockingmoby.MockingMoby.
type MobyAPIClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, container string) (container.InspectResponse, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, container string, options container.StartOptions) error
	ContainerStop(ctx context.Context, container string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, container string, options container.RemoveOptions) error
	ContainerCommit(ctx context.Context, container string, options container.CommitOptions) (container.CommitResponse, error)

	ImageBuild(ctx context.Context, context io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	ImageCreate(ctx context.Context, parentReference string, options image.CreateOptions) (io.ReadCloser, error)
	ImageImport(ctx context.Context, source image.ImportSource, ref string, options image.ImportOptions) (io.ReadCloser, error)
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImageRemove(ctx context.Context, image string, options image.RemoveOptions) ([]image.DeleteResponse, error)

	ServerVersion(ctx context.Context) (types.Version, error)
	DaemonHost() string
	Close() error
}

// MobyEngine is a Docker-engine ContainerEngineClient for managing containers
// and images of Docker daemons.
type MobyEngine struct {
	moby MobyAPIClient      // (minimal) moby engine API client.
	log  logrus.FieldLogger // where build and pull progress goes to.
	out  io.Writer          // optional sink for raw build/pull progress.
}

// Make sure that the ContainerEngineClient interface is fully implemented
var _ (engineclient.ContainerEngineClient) = (*MobyEngine)(nil)

// NewMobyEngine returns a new MobyEngine using the specified Docker engine
// client; typically, you would want to use this lower-level constructor only in
// unit tests and instead use compute/moby.New in most use cases.
func NewMobyEngine(moby MobyAPIClient, opts ...NewOption) *MobyEngine {
	me := &MobyEngine{
		moby: moby,
		log:  logrus.StandardLogger(),
		out:  io.Discard,
	}
	for _, opt := range opts {
		opt(me)
	}
	return me
}

// NewOption represents options to NewMobyEngine when creating new engine
// clients talking to moby engines.
type NewOption func(*MobyEngine)

// WithLogger sets the logger to use.
func WithLogger(log logrus.FieldLogger) NewOption {
	return func(me *MobyEngine) {
		me.log = log
	}
}

// WithProgress sets the writer that receives the rendered progress of image
// builds and pulls.
func WithProgress(w io.Writer) NewOption {
	return func(me *MobyEngine) {
		me.out = w
	}
}

// Client returns the underlying Docker client.
func (me *MobyEngine) Client() MobyAPIClient { return me.moby }

// API returns the container engine API path.
func (me *MobyEngine) API() string { return me.moby.DaemonHost() }

// Close cleans up and release any engine client resources, if necessary.
func (me *MobyEngine) Close() error {
	return me.moby.Close()
}

// Version returns the version information of the Docker daemon.
func (me *MobyEngine) Version(ctx context.Context) (engineclient.Version, error) {
	v, err := me.moby.ServerVersion(ctx)
	if err != nil {
		return engineclient.Version{}, err
	}
	return engineclient.Version{
		Version:       v.Version,
		APIVersion:    v.APIVersion,
		Os:            v.Os,
		Arch:          v.Arch,
		KernelVersion: v.KernelVersion,
		GoVersion:     v.GoVersion,
	}, nil
}

// List the containers, optionally including the non-running ones.
func (me *MobyEngine) List(ctx context.Context, opts engineclient.ListOptions) ([]*engineclient.ContainerRecord, error) {
	containers, err := me.moby.ContainerList(ctx, container.ListOptions{
		All:    opts.All,
		Limit:  opts.Limit,
		Since:  opts.Since,
		Before: opts.Before,
	})
	if err != nil {
		return nil, err // list? what list??
	}
	recs := make([]*engineclient.ContainerRecord, 0, len(containers))
	for _, c := range containers {
		rec := &engineclient.ContainerRecord{
			ID:     c.ID,
			Image:  c.ImageID,
			Labels: c.Labels,
			Status: c.Status,
		}
		if rec.Image == "" {
			rec.Image = c.Image
		}
		if len(c.Names) > 0 {
			rec.Name = strings.TrimPrefix(c.Names[0], "/")
		}
		rec.Ports = make([]engineclient.Port, 0, len(c.Ports))
		for _, p := range c.Ports {
			rec.Ports = append(rec.Ports, engineclient.Port{
				IP:          p.IP,
				PrivatePort: p.PrivatePort,
				PublicPort:  p.PublicPort,
				Type:        p.Type,
			})
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Inspect a container, given its name or ID.
func (me *MobyEngine) Inspect(ctx context.Context, nameorid string) (*engineclient.ContainerRecord, error) {
	details, err := me.moby.ContainerInspect(ctx, nameorid)
	if err != nil {
		return nil, err
	}
	return inspectionRecord(details), nil
}

// inspectionRecord converts the inspection details of a container into a
// container record.
func inspectionRecord(details container.InspectResponse) *engineclient.ContainerRecord {
	rec := &engineclient.ContainerRecord{}
	if details.ContainerJSONBase != nil {
		rec.ID = details.ID
		rec.Name = strings.TrimPrefix(details.Name, "/") // get rid off the leading slash
		rec.Image = details.Image
		if s := details.State; s != nil {
			rec.State = &engineclient.ContainerState{
				Status:  s.Status,
				Running: s.Running,
				Paused:  s.Paused,
				Pid:     s.Pid,
			}
		}
		if hc := details.HostConfig; hc != nil {
			rec.HostConfig = &engineclient.HostConfig{
				PortBindings:    hc.PortBindings,
				Privileged:      hc.Privileged,
				PublishAllPorts: hc.PublishAllPorts,
				Links:           hc.Links,
			}
		}
	}
	if details.Config != nil {
		rec.Hostname = details.Config.Hostname
		rec.Labels = details.Config.Labels
	}
	if ns := details.NetworkSettings; ns != nil {
		rec.NetworkSettings = &engineclient.NetworkSettings{
			IPAddress: ns.IPAddress,
			Ports:     ns.Ports,
		}
	}
	return rec
}

// Create a new container, but don't start it. The returned record only
// reflects the creation request, as the engine only binds ports when starting
// the container.
func (me *MobyEngine) Create(ctx context.Context, spec engineclient.ContainerCreateSpec, binding *engineclient.HostBindingSpec) (*engineclient.ContainerRecord, error) {
	config := &container.Config{
		Image:        spec.Image,
		Cmd:          spec.Cmd,
		AttachStdout: spec.AttachStdout,
		AttachStderr: spec.AttachStderr,
		ExposedPorts: spec.ExposedPorts,
		WorkingDir:   spec.WorkingDir,
		Labels:       spec.Labels,
	}
	hostconfig := &container.HostConfig{
		VolumesFrom: spec.VolumesFrom,
	}
	if binding != nil {
		hostconfig.PortBindings = binding.PortBindings
		hostconfig.Privileged = binding.Privileged
		hostconfig.PublishAllPorts = binding.PublishAllPorts
	}
	created, err := me.moby.ContainerCreate(ctx, config, hostconfig, nil, nil, spec.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create container from image %q", spec.Image)
	}
	for _, warning := range created.Warnings {
		me.log.WithField("container", created.ID).Warn(warning)
	}
	rec := &engineclient.ContainerRecord{
		ID:     created.ID,
		Name:   spec.Name,
		Image:  spec.Image,
		Labels: spec.Labels,
		State:  &engineclient.ContainerState{Status: "created"},
	}
	if binding != nil {
		rec.HostConfig = &engineclient.HostConfig{
			PortBindings:    binding.PortBindings,
			Privileged:      binding.Privileged,
			PublishAllPorts: binding.PublishAllPorts,
		}
	}
	return rec, nil
}

// Remove a container, optionally forcing the removal of a running container.
func (me *MobyEngine) Remove(ctx context.Context, nameorid string, force bool) error {
	return me.moby.ContainerRemove(ctx, nameorid, container.RemoveOptions{
		Force: force,
	})
}

// Start a container.
func (me *MobyEngine) Start(ctx context.Context, nameorid string) error {
	return me.moby.ContainerStart(ctx, nameorid, container.StartOptions{})
}

// Stop a container, using the engine's default stop timeout.
func (me *MobyEngine) Stop(ctx context.Context, nameorid string) error {
	return me.moby.ContainerStop(ctx, nameorid, container.StopOptions{})
}

// Commit a container into a new image, returning the new image's record.
func (me *MobyEngine) Commit(ctx context.Context, nameorid string, repo string, message string) (*engineclient.ImageRecord, error) {
	resp, err := me.moby.ContainerCommit(ctx, nameorid, container.CommitOptions{
		Reference: repo,
		Comment:   message,
	})
	if err != nil {
		return nil, err
	}
	img := &engineclient.ImageRecord{ID: resp.ID}
	if repo != "" {
		img.RepoTags = []string{repo}
	}
	return img, nil
}

// Images lists the images known to the Docker daemon.
func (me *MobyEngine) Images(ctx context.Context, all bool) ([]*engineclient.ImageRecord, error) {
	images, err := me.moby.ImageList(ctx, image.ListOptions{All: all})
	if err != nil {
		return nil, err
	}
	imgs := make([]*engineclient.ImageRecord, 0, len(images))
	for _, i := range images {
		imgs = append(imgs, &engineclient.ImageRecord{
			ID:          i.ID,
			RepoTags:    i.RepoTags,
			Created:     time.Unix(i.Created, 0),
			Size:        i.Size,
			VirtualSize: i.VirtualSize, //nolint:staticcheck // still reported by older daemons
		})
	}
	return imgs, nil
}

// Build an image from the specified local build context directory. Build
// returns only after the daemon has finished building, reporting a failed
// build step as an error.
func (me *MobyEngine) Build(ctx context.Context, opts engineclient.BuildOptions) error {
	if _, err := os.Stat(opts.ContextDir); err != nil {
		return errors.Wrapf(err, "cannot archive build context %q", opts.ContextDir)
	}
	buildctx, err := archive.TarWithOptions(opts.ContextDir, &archive.TarOptions{})
	if err != nil {
		return errors.Wrapf(err, "cannot archive build context %q", opts.ContextDir)
	}
	defer buildctx.Close()
	resp, err := me.moby.ImageBuild(ctx, buildctx, build.ImageBuildOptions{
		Tags:           []string{opts.Tag},
		Dockerfile:     opts.Dockerfile,
		SuppressOutput: opts.Quiet,
		NoCache:        opts.NoCache,
		Remove:         true,
		ForceRemove:    true,
	})
	if err != nil {
		return errors.Wrapf(err, "cannot build image %q", opts.Tag)
	}
	defer resp.Body.Close()
	me.log.WithField("image", opts.Tag).Info("building image")
	if err := me.drain(resp.Body); err != nil {
		return errors.Wrapf(err, "build of image %q failed", opts.Tag)
	}
	return nil
}

// Pull an image from a registry, or import it from a source URL, returning
// only after the operation has finished.
func (me *MobyEngine) Pull(ctx context.Context, opts engineclient.PullOptions) error {
	var progress io.ReadCloser
	var err error
	ref := opts.Repo
	if opts.FromSrc != "" {
		if opts.Tag != "" {
			ref += ":" + opts.Tag
		}
		progress, err = me.moby.ImageImport(ctx,
			image.ImportSource{SourceName: opts.FromSrc}, ref, image.ImportOptions{})
	} else {
		ref = opts.FromImage
		if opts.Registry != "" {
			ref = opts.Registry + "/" + ref
		}
		if opts.Tag != "" {
			ref += ":" + opts.Tag
		}
		progress, err = me.moby.ImageCreate(ctx, ref, image.CreateOptions{})
	}
	if err != nil {
		return errors.Wrapf(err, "cannot pull image %q", ref)
	}
	defer progress.Close()
	me.log.WithField("image", ref).Info("pulling image")
	if err := me.drain(progress); err != nil {
		return errors.Wrapf(err, "pull of image %q failed", ref)
	}
	return nil
}

// RemoveImage removes an image, given its name or ID.
func (me *MobyEngine) RemoveImage(ctx context.Context, name string) error {
	_, err := me.moby.ImageRemove(ctx, name, image.RemoveOptions{})
	return err
}

// drain reads a JSON message progress stream until its end, returning the
// first error reported in the stream.
func (me *MobyEngine) drain(r io.Reader) error {
	return jsonmessage.DisplayJSONMessagesStream(r, me.out, 0, false, nil)
}
