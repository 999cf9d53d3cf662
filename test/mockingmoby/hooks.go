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

import "context"

// HookKey identifies a particular hook point inside a mocked API call.
type HookKey string

// Hook points.
const (
	ContainerListPre     = HookKey("containerlistpre")
	ContainerListPost    = HookKey("containerlistpost")
	ContainerInspectPre  = HookKey("containerinspectpre")
	ContainerInspectPost = HookKey("containerinspectpost")
	ContainerCreatePre   = HookKey("containercreatepre")
	ContainerStartPre    = HookKey("containerstartpre")
	ContainerStopPre     = HookKey("containerstoppre")
	ContainerRemovePre   = HookKey("containerremovepre")
	ContainerCommitPre   = HookKey("containercommitpre")
	ImageBuildPre        = HookKey("imagebuildpre")
	ImageCreatePre       = HookKey("imagecreatepre")
	ImageListPre         = HookKey("imagelistpre")
	ImageRemovePre       = HookKey("imageremovepre")
)

// Hook gets called at a specific hook point and might return an error in
// order to fail the mocked API call.
type Hook func(HookKey) error

// WithHook returns a new context with the specified hook attached.
func WithHook(ctx context.Context, key HookKey, hook Hook) context.Context {
	return context.WithValue(ctx, key, hook)
}

func callHook(ctx context.Context, key HookKey) error {
	if h := ctx.Value(key); h != nil {
		return h.(Hook)(key)
	}
	return nil
}
