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
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/compute"
)

// EnvPrefix is the prefix of environment variables configuring whalefleet.
const EnvPrefix = "WHALEFLEET"

// Configuration keys; these are also the names of the global flags.
const (
	keyConfig        = "config"
	keyHost          = "host"
	keyEngineAddress = "engine-address"
	keyAdminPort     = "admin-port"
	keyAdminUser     = "admin-user"
	keyAdminPassword = "admin-password"
	keyLogLevel      = "log-level"
	keyOutput        = "output"
)

// settings are the effective global settings after merging flags,
// environment and configuration file.
type settings struct {
	Host          string
	EngineAddress string
	AdminPort     int
	AdminUser     string
	AdminPassword string
	LogLevel      logrus.Level
	Output        string
}

// newViper returns a fresh viper instance picking up WHALEFLEET_*
// environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadSettings reads the optional configuration file and then returns the
// effective settings.
func loadSettings(v *viper.Viper) (settings, error) {
	if file := v.GetString(keyConfig); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("cannot read configuration file %s: %w", file, err)
		}
	}
	level, err := logrus.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return settings{}, err
	}
	s := settings{
		Host:          v.GetString(keyHost),
		EngineAddress: v.GetString(keyEngineAddress),
		AdminPort:     v.GetInt(keyAdminPort),
		AdminUser:     v.GetString(keyAdminUser),
		AdminPassword: v.GetString(keyAdminPassword),
		LogLevel:      level,
		Output:        v.GetString(keyOutput),
	}
	switch s.Output {
	case "yaml", "json":
	default:
		return settings{}, fmt.Errorf("unsupported output format %q, must be yaml or json", s.Output)
	}
	return s, nil
}

// computeConfig returns the compute adapter configuration for these settings.
func (s settings) computeConfig() compute.Config {
	cfg := compute.DefaultConfig()
	if s.EngineAddress != "" {
		cfg.EngineHost = s.EngineAddress
	}
	if s.AdminPort > 0 {
		cfg.AdminPort = s.AdminPort
	}
	if s.AdminUser != "" {
		cfg.AdminCredentials = whalefleet.Credentials{
			User:             s.AdminUser,
			Password:         s.AdminPassword,
			AuthenticateSudo: true,
		}
	}
	return cfg
}
