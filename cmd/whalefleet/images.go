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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thediveo/whalefleet/compute"
)

func (a *app) newImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image"},
		Short:   "list images, building missing base images first",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "list images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				images, err := ca.ListImages(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd, images)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "show a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				image, err := ca.GetImage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if image == nil {
					return fmt.Errorf("image %s: %w", args[0], errNoSuch)
				}
				return a.render(cmd, image)
			})
		},
	})
	return cmd
}
