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
Package mockingmoby is a very minimalist Docker mock client designed for
simple unit tests in the whalefleet package.

Mocked containers and images are not created, started, or removed using the
Docker client service API in test setups but instead using AddContainer,
AddImage, and RemoveContainer. The code under test then works on them using
the usual client API calls, such as ContainerCreate, ContainerStart,
ContainerStop, ImageBuild, and so on. Starting a mocked container resolves its
requested port bindings, assigning host ports from 32768 upwards to ports that
get published without an explicit host port.

All API calls are recorded in a journal, see Calls, so that unit tests can
check the sequence of calls issued by the code under test. In addition, tests
might inject failures using context hooks (see WithHook) or by failing builds
using FailBuilds.
*/
package mockingmoby
