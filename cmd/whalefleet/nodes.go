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
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thediveo/whalefleet/compute"
)

// errNoSuch indicates a node or image that doesn't exist.
var errNoSuch = errors.New("not found")

func (a *app) newNodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nodes",
		Aliases: []string{"node"},
		Short:   "manage nodes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "list nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				nodes, err := ca.ListNodes(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd, nodes)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "show a single node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				node, err := ca.GetNode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if node == nil {
					return fmt.Errorf("node %s: %w", args[0], errNoSuch)
				}
				return a.render(cmd, node)
			})
		},
	})
	cmd.AddCommand(a.newNodesCreateCmd())
	for _, op := range []struct {
		use   string
		short string
		fn    func(*compute.Adapter, context.Context, string) error
	}{
		{"destroy", "stop and remove a node", (*compute.Adapter).DestroyNode},
		{"reboot", "(re)start a node", (*compute.Adapter).RebootNode},
		{"suspend", "stop a node", (*compute.Adapter).SuspendNode},
		{"resume", "start a suspended node", (*compute.Adapter).ResumeNode},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   op.use + " ID",
			Short: op.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withAdapter(func(ca *compute.Adapter) error {
					if err := op.fn(ca, cmd.Context(), args[0]); err != nil {
						return err
					}
					a.log.WithField("node", args[0]).Infof("%s done", op.use)
					return nil
				})
			},
		})
	}
	return cmd
}

func (a *app) newNodesCreateCmd() *cobra.Command {
	var group, name, image string
	var ports []int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create and start a new node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				node, _, err := ca.CreateNode(cmd.Context(), group, name, &compute.Template{
					ImageID: image,
					Options: &compute.TemplateOptions{InboundPorts: ports},
				})
				if err != nil {
					return err
				}
				return a.render(cmd, node)
			})
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "node group")
	cmd.Flags().StringVar(&name, "name", "", "node name (default generated from group)")
	cmd.Flags().StringVar(&image, "image", "", "ID or repo:tag of image to create the node from")
	cmd.Flags().IntSliceVar(&ports, "port", []int{compute.DefaultAdminPort}, "inbound TCP port(s)")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}
