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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thediveo/whalefleet/compute"
	mobycompute "github.com/thediveo/whalefleet/compute/moby"
)

// adapterFactory returns a compute adapter connected to the container engine
// at the specified host, or the engine from the environment if host is empty.
type adapterFactory func(host string, cfg compute.Config, log logrus.FieldLogger) (*compute.Adapter, error)

func newMobyAdapter(host string, cfg compute.Config, log logrus.FieldLogger) (*compute.Adapter, error) {
	return mobycompute.New(host, cfg, compute.WithLogger(log))
}

// app carries the state shared by all commands of a single invocation.
type app struct {
	v        *viper.Viper
	factory  adapterFactory
	settings settings
	log      *logrus.Logger
}

func newRootCmd(factory adapterFactory) *cobra.Command {
	a := &app{
		v:       newViper(),
		factory: factory,
		log:     logrus.StandardLogger(),
	}
	cmd := &cobra.Command{
		Use:          "whalefleet",
		Short:        "whalefleet manages compute nodes on a Docker engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(a.v)
			if err != nil {
				return err
			}
			a.settings = s
			a.log.SetOutput(cmd.ErrOrStderr())
			a.log.SetLevel(s.LogLevel)
			a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "", "YAML configuration file")
	flags.String(keyHost, "", "Docker daemon URL, such as unix:///var/run/docker.sock (default from DOCKER_HOST)")
	flags.String(keyEngineAddress, compute.DefaultEngineHost, "address of the engine host published in node addresses")
	flags.Int(keyAdminPort, compute.DefaultAdminPort, "guest port of the nodes' SSH daemon")
	flags.String(keyAdminUser, "", "user name for logging into nodes (default root)")
	flags.String(keyAdminPassword, "", "password for logging into nodes")
	flags.String(keyLogLevel, "warning", "log level (debug, info, warning, error)")
	flags.StringP(keyOutput, "o", "yaml", "output format (yaml, json)")
	_ = a.v.BindPFlags(flags)

	cmd.AddCommand(
		a.newVersionCmd(),
		a.newNodesCmd(),
		a.newImagesCmd(),
		a.newHardwareCmd(),
		a.newLocationsCmd(),
	)
	return cmd
}

// adapter returns a new compute adapter according to the current settings.
// Callers must close the adapter when done.
func (a *app) adapter() (*compute.Adapter, error) {
	return a.factory(a.settings.Host, a.settings.computeConfig(), a.log)
}

// withAdapter runs fn with a fresh compute adapter, closing it afterwards.
func (a *app) withAdapter(fn func(*compute.Adapter) error) error {
	ca, err := a.adapter()
	if err != nil {
		return err
	}
	defer ca.Close()
	return fn(ca)
}

func (a *app) render(cmd *cobra.Command, v any) error {
	return render(cmd.OutOrStdout(), a.settings.Output, v)
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "show the container engine version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				version, err := ca.Engine().Version(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd, version)
			})
		},
	}
}

func (a *app) newHardwareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "hardware profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "list hardware profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				return a.render(cmd, ca.ListHardwareProfiles(cmd.Context()))
			})
		},
	})
	return cmd
}

func (a *app) newLocationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "node locations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "list locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAdapter(func(ca *compute.Adapter) error {
				return a.render(cmd, ca.ListLocations(cmd.Context()))
			})
		},
	})
	return cmd
}
