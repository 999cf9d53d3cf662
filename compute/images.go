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

	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/engineclient"
)

// ListImages returns all images. Missing base images get built first,
// followed by removing leftover containers, see LeftoverPolicy. Cleaning up
// happens on every listing, so orphans of failed node creations eventually
// go away.
func (a *Adapter) ListImages(ctx context.Context) ([]*whalefleet.Image, error) {
	records, err := a.engine.Images(ctx, true)
	if err != nil {
		return nil, err
	}
	built, err := a.bootstrap(ctx, records)
	if err != nil {
		return nil, err
	}
	a.cleanup(ctx)
	if built > 0 {
		records, err = a.engine.Images(ctx, true)
		if err != nil {
			return nil, err
		}
	}
	return a.translateImages(records), nil
}

func (a *Adapter) translateImages(records []*engineclient.ImageRecord) []*whalefleet.Image {
	images := make([]*whalefleet.Image, 0, len(records))
	for _, rec := range records {
		images = append(images, TranslateImage(rec, a.log))
	}
	return images
}

// GetImage returns the image with the specified ID, or nil if there is no
// such image. Same as ListImages, GetImage bootstraps missing base images.
func (a *Adapter) GetImage(ctx context.Context, id string) (*whalefleet.Image, error) {
	images, err := a.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		if img.ID == id {
			return img, nil
		}
	}
	return nil, nil
}
