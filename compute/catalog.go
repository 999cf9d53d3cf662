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
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thediveo/whalefleet/engineclient"
)

// BaseImage is an image that gets bootstrapped when missing, by building it
// from the build context in the Folder of the build context file system.
type BaseImage struct {
	Name   string // repository name, such as "whalefleet/centos".
	Folder string // build context folder containing the Dockerfile.
}

// DefaultBaseImages returns the base images bootstrapped by default.
func DefaultBaseImages() []BaseImage {
	return []BaseImage{
		{Name: "whalefleet/centos", Folder: "centos"},
		{Name: "whalefleet/ubuntu", Folder: "ubuntu"},
	}
}

//go:embed buildcontext
var embeddedBuildContexts embed.FS

// DefaultBuildContexts returns the embedded build contexts of the default base
// images, with a top-level folder per base image.
func DefaultBuildContexts() fs.FS {
	sub, err := fs.Sub(embeddedBuildContexts, "buildcontext")
	if err != nil {
		panic(err) // cannot happen, as the directory is embedded.
	}
	return sub
}

// LeftoverPolicy returns true if the specified container is a leftover to be
// stopped and removed when listing images. The container records are from
// listing containers, so only the flat port list and the chatty status are
// available.
type LeftoverPolicy func(*engineclient.ContainerRecord) bool

// PortlessLeftovers considers containers without any published ports to be
// leftovers, such as from image builds. Labelled nodes are leftovers only as
// long as they never got started: these are orphans of failed node creations.
// Suspended nodes lose their published ports, yet they are kept.
func PortlessLeftovers(rec *engineclient.ContainerRecord) bool {
	for _, port := range rec.Ports {
		if port.PublicPort != 0 {
			return false
		}
	}
	if isNode(rec) {
		return neverStarted(rec)
	}
	return true
}

// neverStarted returns true if the listed container is still in its "Created"
// state.
func neverStarted(rec *engineclient.ContainerRecord) bool {
	return strings.HasPrefix(rec.Status, "Created")
}

// NoLeftovers never considers any container a leftover, disabling the
// cleanup.
func NoLeftovers(*engineclient.ContainerRecord) bool { return false }

// hasBaseImage returns true if any of the images' first repo:tag starts with
// the specified repository name.
func hasBaseImage(images []*engineclient.ImageRecord, name string) bool {
	for _, img := range images {
		if len(img.RepoTags) > 0 && strings.HasPrefix(img.RepoTags[0], name) {
			return true
		}
	}
	return false
}

// bootstrap builds those base images missing from the specified images,
// returning the number of images built. Concurrent bootstraps of the same
// base image share a single build. The shared build isn't cancelled when the
// caller that started it gives up, but every caller stops waiting as soon as
// its own context is done.
func (a *Adapter) bootstrap(ctx context.Context, images []*engineclient.ImageRecord) (int, error) {
	built := 0
	for _, base := range a.baseimages {
		if hasBaseImage(images, base.Name) {
			continue
		}
		buildctx := context.WithoutCancel(ctx)
		ch := a.builds.DoChan(base.Name, func() (any, error) {
			return nil, a.build(buildctx, base)
		})
		select {
		case <-ctx.Done():
			return built, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return built, res.Err
			}
		}
		built++
	}
	return built, nil
}

// build the specified base image from its build context, blocking until the
// build has finished.
func (a *Adapter) build(ctx context.Context, base BaseImage) error {
	log := a.log.WithField("image", base.Name)
	log.Info("building missing base image")
	dir, err := os.MkdirTemp("", "whalefleet-buildctx-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	if err := extract(a.buildctx, base.Folder, dir); err != nil {
		return fmt.Errorf("cannot extract build context for base image %s: %w", base.Name, err)
	}
	if err := a.engine.Build(ctx, engineclient.BuildOptions{
		Tag:        base.Name,
		ContextDir: dir,
		Quiet:      true,
	}); err != nil {
		return err
	}
	log.Info("built base image")
	return nil
}

// extract the folder from the file system into the specified destination
// directory.
func extract(fsys fs.FS, folder string, dest string) error {
	return fs.WalkDir(fsys, folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

// cleanup stops and removes all leftover containers. Failures are only
// logged.
func (a *Adapter) cleanup(ctx context.Context) {
	containers, err := a.engine.List(ctx, engineclient.ListOptions{All: true})
	if err != nil {
		a.log.WithError(err).Warn("cannot list containers for leftover cleanup")
		return
	}
	for _, rec := range containers {
		if !a.leftovers(rec) {
			continue
		}
		log := a.log.WithField("container", rec.ID)
		log.Info("removing leftover container")
		if err := a.engine.Stop(ctx, rec.ID); err != nil {
			log.WithError(err).Warn("cannot stop leftover container")
		}
		if err := a.engine.Remove(ctx, rec.ID, true); err != nil {
			log.WithError(err).Warn("cannot remove leftover container")
		}
	}
}
