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
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/thediveo/whalefleet"
)

// osDetailsScript prints the guest OS details as "os:...;version:...;arch:...".
// Changing its output format breaks ParseOsDetails.
//
//go:embed osdetails.sh
var osDetailsScript string

// OsDetailsScript returns the script run on nodes in order to probe their
// guest OS details.
func OsDetailsScript() string { return osDetailsScript }

// probe the guest operating system of the node reachable at the specified
// endpoint. The remote connection is always closed before returning.
func (t *NodeTranslator) probe(ctx context.Context, ep Endpoint) (*whalefleet.OperatingSystem, error) {
	t.log.WithField("endpoint", ep.String()).Debug(">> probing node OS details")
	client, err := t.dialer.Dial(ctx, ep.Host, ep.Port, t.cfg.AdminCredentials)
	if err != nil {
		return nil, &ProbeError{Endpoint: ep, Err: err}
	}
	defer client.Close()
	resp, err := client.Exec(ctx, osDetailsScript)
	if err != nil {
		return nil, &ProbeError{Endpoint: ep, Err: err}
	}
	if resp.ExitStatus != 0 {
		return nil, &ProbeError{
			Endpoint: ep,
			Err:      fmt.Errorf("OS details script failed with exit status %d", resp.ExitStatus),
		}
	}
	os := ParseOsDetails(resp.Output)
	t.log.WithField("endpoint", ep.String()).Debugf("<< node OS %s %s", os.Family, os.Version)
	return os, nil
}

// ParseOsDetails parses the "key:value;key:value" output of the OS details
// script. Malformed elements are skipped. A missing or unknown "os" value
// results in OsUnrecognized, while an "arch" value of "64" indicates a 64 bit
// guest.
func ParseOsDetails(output string) *whalefleet.OperatingSystem {
	output = strings.TrimSpace(output)
	details := map[string]string{}
	for _, element := range strings.Split(output, ";") {
		key, value, ok := strings.Cut(element, ":")
		if !ok {
			continue
		}
		details[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return &whalefleet.OperatingSystem{
		Family:      whalefleet.ParseOsFamily(details["os"]),
		Version:     details["version"],
		Description: output,
		Arch:        details["arch"],
		Is64Bit:     details["arch"] == "64",
	}
}
