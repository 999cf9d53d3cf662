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
Package fakesshd provides an in-process SSH server for unit tests, answering
remote script executions with canned responses.

The fake server listens on a random loopback port, accepts only the configured
user and password, and passes the command and script (read from stdin) of each
session to a Responder. The server journals all scripts it has been sent and
keeps track of the currently open connections, so that tests can check that
clients properly disconnect.
*/
package fakesshd
