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

/*
Command whalefleet manages compute nodes on a Docker engine from the command
line.

	whalefleet [--host URL] [--engine-address IP] [--admin-user U]
	    [--admin-password P] [--log-level L] [-o yaml|json] <command>

All global flags can also be set using environment variables prefixed with
"WHALEFLEET_", such as WHALEFLEET_ENGINE_ADDRESS, or in a YAML configuration
file passed using --config. Flags take precedence over environment variables,
which in turn take precedence over the configuration file.
*/
package main
