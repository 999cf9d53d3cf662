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
	"context"

	"github.com/docker/docker/api/types"
)

// MockedVersion is the engine version reported by ServerVersion.
const MockedVersion = "28.2.2"

// ServerVersion returns engine version information, consisting only of fake
// version and platform fields.
func (mm *MockingMoby) ServerVersion(ctx context.Context) (types.Version, error) {
	if err := isCtxCancelled(ctx); err != nil {
		return types.Version{}, err
	}
	mm.record("ServerVersion", "")
	return types.Version{
		Version:       MockedVersion,
		APIVersion:    "1.50",
		Os:            "linux",
		Arch:          "amd64",
		KernelVersion: "6.6.6-mocked",
		GoVersion:     "go1.24.3",
	}, nil
}
