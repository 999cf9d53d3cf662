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
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/engineclient"
)

// TranslateImage translates an image record into an image. The image's
// description is its first repo:tag, from which the OS family and version are
// inferred: the family by looking for known OS family names, the version as
// the part following the first colon. A missing version is logged, but not an
// error.
func TranslateImage(rec *engineclient.ImageRecord, log logrus.FieldLogger) *whalefleet.Image {
	description := ""
	if len(rec.RepoTags) > 0 {
		description = rec.RepoTags[0]
	}
	version := ""
	if parts := strings.Split(description, ":"); len(parts) >= 2 {
		version = parts[1]
	} else if log != nil {
		log.WithField("image", rec.ID).Debugf("cannot parse version from %q", description)
	}
	return &whalefleet.Image{
		ID:          rec.ID,
		Description: description,
		OperatingSystem: whalefleet.OperatingSystem{
			Family:      whalefleet.OsFamilyIn(description),
			Version:     version,
			Description: description,
			Is64Bit:     true,
		},
		Status:      whalefleet.ImageAvailable,
		Created:     rec.Created,
		Size:        rec.Size,
		VirtualSize: rec.VirtualSize,
	}
}
