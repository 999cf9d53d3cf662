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
	"archive/tar"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
)

// MockedImageSize is the size of mocked images built or pulled.
const MockedImageSize = 42 * 1024 * 1024

// ImageBuild consumes the build context tar stream, checking that it contains
// the Dockerfile, and then adds a new mocked image with the requested tags. A
// build failure set using FailBuilds is reported in the returned progress
// stream, not as an error result, the same way a real daemon does.
func (mm *MockingMoby) ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return build.ImageBuildResponse{}, err
	}
	mm.record("ImageBuild", strings.Join(options.Tags, ","))
	if err := callHook(ctx, ImageBuildPre); err != nil {
		return build.ImageBuildResponse{}, err
	}
	dockerfile := options.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}
	found := false
	tr := tar.NewReader(buildContext)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return build.ImageBuildResponse{}, fmt.Errorf("invalid build context: %w", err)
		}
		if strings.TrimPrefix(hdr.Name, "./") == dockerfile {
			found = true
		}
	}
	mm.mux.RLock()
	failure := mm.buildfail
	mm.mux.RUnlock()
	if !found {
		failure = "Cannot locate specified Dockerfile: " + dockerfile
	}
	if failure != "" {
		return build.ImageBuildResponse{
			Body: progressStream(jsonmessage.JSONMessage{
				Error: &jsonmessage.JSONError{Code: 1, Message: failure},
			}),
		}, nil
	}
	img := MockedImage{
		ID:      "sha256:" + newID(),
		Created: time.Now(),
		Size:    MockedImageSize,
	}
	for _, tag := range options.Tags {
		img.RepoTags = append(img.RepoTags, normalizedTag(tag))
	}
	mm.AddImage(img)
	return build.ImageBuildResponse{
		Body: progressStream(
			jsonmessage.JSONMessage{Stream: "Step 1/1 : FROM scratch\n"},
			jsonmessage.JSONMessage{Stream: "Successfully built " + img.ID[7:19] + "\n"}),
		OSType: "linux",
	}, nil
}

// ImageCreate "pulls" a mocked image, adding it if not yet present.
func (mm *MockingMoby) ImageCreate(ctx context.Context, ref string, options image.CreateOptions) (io.ReadCloser, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return nil, err
	}
	mm.record("ImageCreate", ref)
	if err := callHook(ctx, ImageCreatePre); err != nil {
		return nil, err
	}
	mm.pulled(ref)
	return progressStream(jsonmessage.JSONMessage{Status: "Status: Downloaded newer image for " + ref}), nil
}

// ImageImport "imports" a mocked image, adding it under the specified
// reference.
func (mm *MockingMoby) ImageImport(ctx context.Context, source image.ImportSource, ref string, options image.ImportOptions) (io.ReadCloser, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return nil, err
	}
	mm.record("ImageImport", source.SourceName)
	if err := callHook(ctx, ImageCreatePre); err != nil {
		return nil, err
	}
	mm.pulled(ref)
	return progressStream(jsonmessage.JSONMessage{Status: "sha256:" + newID()}), nil
}

func (mm *MockingMoby) pulled(ref string) {
	mm.mux.Lock()
	defer mm.mux.Unlock()
	if _, ok := mm.lookupImageLocked(ref); ok {
		return
	}
	img := MockedImage{
		ID:      "sha256:" + newID(),
		Created: time.Now(),
		Size:    MockedImageSize,
	}
	if ref != "" {
		img.RepoTags = []string{normalizedTag(ref)}
	}
	mm.images[img.ID] = img
}

// ImageList lists the mocked images, sorted by creation time with the most
// recent first, the same way the Docker daemon does.
func (mm *MockingMoby) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return nil, err
	}
	mm.record("ImageList", "")
	if err := callHook(ctx, ImageListPre); err != nil {
		return nil, err
	}
	mm.mux.RLock()
	imgs := make([]image.Summary, 0, len(mm.images))
	for _, img := range mm.images {
		imgs = append(imgs, image.Summary{
			ID:          img.ID,
			RepoTags:    img.RepoTags,
			Created:     img.Created.Unix(),
			Size:        img.Size,
			VirtualSize: img.Size,
		})
	}
	mm.mux.RUnlock()
	sortImageSummaries(imgs)
	return imgs, nil
}

// ImageRemove removes a mocked image, given its ID or one of its repo tags.
func (mm *MockingMoby) ImageRemove(ctx context.Context, ref string, options image.RemoveOptions) ([]image.DeleteResponse, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return nil, err
	}
	mm.record("ImageRemove", ref)
	if err := callHook(ctx, ImageRemovePre); err != nil {
		return nil, err
	}
	mm.mux.Lock()
	defer mm.mux.Unlock()
	img, ok := mm.lookupImageLocked(ref)
	if !ok {
		return nil, noSuchImage(ref)
	}
	delete(mm.images, img.ID)
	return []image.DeleteResponse{{Deleted: img.ID}}, nil
}

// normalizedTag returns the specified image reference with an explicit tag,
// defaulting to "latest".
func normalizedTag(ref string) string {
	if idx := strings.LastIndex(ref, ":"); idx < 0 || strings.Contains(ref[idx:], "/") {
		return ref + ":latest"
	}
	return ref
}

// progressStream returns a JSON message stream consisting of the specified
// messages.
func progressStream(msgs ...jsonmessage.JSONMessage) io.ReadCloser {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	for _, msg := range msgs {
		_ = enc.Encode(msg)
	}
	return io.NopCloser(strings.NewReader(b.String()))
}

// sortImageSummaries sorts the most recently created images first, the same
// way the Docker daemon lists them.
func sortImageSummaries(imgs []image.Summary) {
	sort.SliceStable(imgs, func(i, j int) bool {
		if imgs[i].Created != imgs[j].Created {
			return imgs[i].Created > imgs[j].Created
		}
		return imgs[i].ID < imgs[j].ID
	})
}
