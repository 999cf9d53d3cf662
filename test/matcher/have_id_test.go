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

package matcher

import (
	"github.com/thediveo/whalefleet"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HaveID matcher", func() {

	It("matches nodes and images", func() {
		Expect(whalefleet.Node{ID: "c0ffee"}).To(HaveID("c0ffee"))
		Expect(&whalefleet.Image{ID: "sha256:beef"}).To(HaveID("sha256:beef"))
		Expect(whalefleet.Node{ID: "c0ffee"}).NotTo(HaveID("beef"))
	})

	It("errors for values without an ID", func() {
		Expect(HaveID("c0ffee").Match(whalefleet.Hardware{Name: "c0ffee"})).Error().NotTo(HaveOccurred())
		Expect(HaveID("c0ffee").Match(whalefleet.Location{})).Error().NotTo(HaveOccurred())
		Expect(HaveID("c0ffee").Match(whalefleet.Credentials{User: "c0ffee"})).Error().To(HaveOccurred())
		Expect(HaveID("c0ffee").Match("c0ffee")).Error().To(HaveOccurred())
	})

})
