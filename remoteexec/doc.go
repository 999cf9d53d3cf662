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
Package remoteexec defines the interface for running scripts on a remote
host, such as probing the guest operating system of a freshly created node.

A Dialer connects to a remote host given its address and login credentials,
returning a Client. The Client then executes scripts on the remote host,
returning the script's output and exit status. Callers must always Close a
Client after use, including all error paths.

Sub-packages implement specific remote execution transports.
*/
package remoteexec
