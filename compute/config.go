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

import "github.com/thediveo/whalefleet"

// Labels identifying the node group and name of node containers.
const (
	GroupLabel = "whalefleet.group"
	NameLabel  = "whalefleet.name"
)

// Defaults for Config fields left zero.
const (
	DefaultEngineHost = "127.0.0.1"
	DefaultAdminPort  = 22
)

// DefaultBootstrapCommand starts the SSH daemon of a node in the foreground.
var DefaultBootstrapCommand = []string{"/usr/sbin/sshd", "-D"}

// Config tells an Adapter how to reach and log into nodes.
type Config struct {
	// Address of the container engine host, as published in the nodes' public
	// and private address lists and used to connect to the nodes.
	EngineHost string
	// Guest port of the nodes' administrative SSH daemon.
	AdminPort int
	// Credentials for logging into nodes.
	AdminCredentials whalefleet.Credentials
	// Command to start containers with, which must run the SSH daemon in
	// foreground.
	BootstrapCommand []string
}

// DefaultConfig returns the configuration for a local container engine and
// nodes created from the default base images.
func DefaultConfig() Config {
	return Config{
		EngineHost: DefaultEngineHost,
		AdminPort:  DefaultAdminPort,
		AdminCredentials: whalefleet.Credentials{
			User:             "root",
			Password:         "password",
			AuthenticateSudo: true,
		},
		BootstrapCommand: append([]string(nil), DefaultBootstrapCommand...),
	}
}

// withDefaults returns a copy of the configuration with zero fields set to
// their defaults.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.EngineHost == "" {
		c.EngineHost = def.EngineHost
	}
	if c.AdminPort <= 0 {
		c.AdminPort = def.AdminPort
	}
	if c.AdminCredentials.User == "" {
		c.AdminCredentials = def.AdminCredentials
	}
	if len(c.BootstrapCommand) == 0 {
		c.BootstrapCommand = def.BootstrapCommand
	}
	return c
}
