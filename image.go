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

package whalefleet

import (
	"fmt"
	"time"
)

// ImageStatus is the availability of an image. As images only become visible
// to us after they have been completely built or pulled, there's only a single
// status.
type ImageStatus string

// ImageAvailable indicates an image ready to create nodes from.
const ImageAvailable ImageStatus = "AVAILABLE"

// Image from which nodes can be created.
type Image struct {
	ID              string          `json:"id" yaml:"id"`
	Description     string          `json:"description" yaml:"description"` // first repo:tag of image.
	OperatingSystem OperatingSystem `json:"os" yaml:"os"`                   // as claimed by the image's repo:tag.
	Status          ImageStatus     `json:"status" yaml:"status"`
	Created         time.Time       `json:"created,omitempty" yaml:"created,omitempty"`
	Size            int64           `json:"size,omitempty" yaml:"size,omitempty"`
	VirtualSize     int64           `json:"virtualSize,omitempty" yaml:"virtualSize,omitempty"`
}

// String returns a textual representation of an image.
func (i Image) String() string {
	return fmt.Sprintf("image '%s'/%s (%s %s)",
		i.Description, i.ID, i.OperatingSystem.Family, i.OperatingSystem.Version)
}
