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
Package ssh implements a remote execution Dialer using password-authenticated
SSH connections.

	dialer := ssh.NewDialer(ssh.WithTimeout(5 * time.Second))
	client, err := dialer.Dial(ctx, "127.0.0.1", 32768, whalefleet.Credentials{
		User:     "root",
		Password: "password",
	})
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.Exec(ctx, "uname -a")

Scripts are fed into "/bin/sh -s" on the remote host through stdin, so that
multi-line scripts run verbatim without any quoting issues.

By default, a Dialer attempts to connect exactly once. Use WithBackOff in order
to retry connecting, such as when an SSH daemon of a freshly started container
isn't yet listening.
*/
package ssh
