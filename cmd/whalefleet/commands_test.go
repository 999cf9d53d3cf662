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
	"encoding/json"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/goccy/go-yaml"
	"github.com/thediveo/whalefleet"
	"github.com/thediveo/whalefleet/compute"
	"github.com/thediveo/whalefleet/test/fakesshd"
	"github.com/thediveo/whalefleet/test/mockingmoby"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
	. "github.com/thediveo/whalefleet/test/matcher"
)

var _ = Describe("commands", func() {

	var f *recordingFactory

	BeforeEach(func() {
		mm := mockingmoby.NewMockingMoby()
		for _, img := range []mockingmoby.MockedImage{
			{ID: "sha256:c0ffee", RepoTags: []string{"whalefleet/centos:latest"}},
			{ID: "sha256:beef", RepoTags: []string{"whalefleet/ubuntu:22.04"}},
		} {
			img.Created = time.Now().Truncate(time.Second)
			mm.AddImage(img)
		}
		mm.AddContainer(mockingmoby.MockedContainer{
			ID:           "1234567890",
			Name:         "noddy",
			Image:        "sha256:c0ffee",
			Status:       mockingmoby.MockedRunning,
			Labels:       map[string]string{compute.GroupLabel: "toytown", compute.NameLabel: "noddy"},
			PortBindings: nat.PortMap{"22/tcp": []nat.PortBinding{{HostPort: "2222"}}},
		})
		f = &recordingFactory{mm: mm}
	})

	It("shows the engine version", func() {
		out := Successful(whalefleetCmd(f, "version"))
		Expect(out).To(ContainSubstring("version: " + mockingmoby.MockedVersion))
	})

	It("lists nodes as JSON", func() {
		out := Successful(whalefleetCmd(f, "nodes", "ls", "-o", "json"))
		var nodes []whalefleet.Node
		Expect(json.Unmarshal([]byte(out), &nodes)).To(Succeed())
		Expect(nodes).To(ConsistOf(BeANode(
			HaveID("1234567890"),
			HaveName("noddy"),
			HaveGroup("toytown"),
			HaveStatus(whalefleet.NodeRunning),
			HaveLoginPort(2222),
		)))
	})

	It("gets a node as YAML", func() {
		out := Successful(whalefleetCmd(f, "nodes", "get", "noddy"))
		var node whalefleet.Node
		Expect(yaml.Unmarshal([]byte(out), &node)).To(Succeed())
		Expect(node).To(BeANode(HaveID("1234567890"), HaveLoginPort(2222)))

		Expect(whalefleetCmd(f, "nodes", "get", "nada")).Error().To(MatchError(errNoSuch))
	})

	It("lists images", func() {
		out := Successful(whalefleetCmd(f, "images", "ls"))
		var images []whalefleet.Image
		Expect(yaml.Unmarshal([]byte(out), &images)).To(Succeed())
		Expect(images).To(ConsistOf(
			HaveField("ID", "sha256:c0ffee"),
			HaveField("ID", "sha256:beef"),
		))
		Expect(f.mm.CallOps()).NotTo(ContainElement("ImageBuild"))

		Expect(whalefleetCmd(f, "images", "get", "sha256:beef")).To(ContainSubstring("whalefleet/ubuntu:22.04"))
		Expect(whalefleetCmd(f, "images", "get", "sha256:nada")).Error().To(MatchError(errNoSuch))
	})

	It("lists hardware profiles and locations", func() {
		out := Successful(whalefleetCmd(f, "-o", "json", "hardware", "ls"))
		var hw []whalefleet.Hardware
		Expect(json.Unmarshal([]byte(out), &hw)).To(Succeed())
		Expect(hw).To(Equal(whalefleet.DefaultHardware()))

		Expect(whalefleetCmd(f, "-o", "json", "locations", "ls")).To(MatchJSON(`[]`))
	})

	It("creates a node", func() {
		sshd := Successful(fakesshd.New("root", "password", fakesshd.OsDetails("centos", "7", "64")))
		DeferCleanup(func() { _ = sshd.Close() })
		f.dialer = sshdDialer{sshd: sshd}

		out := Successful(whalefleetCmd(f, "nodes", "create",
			"--group", "toytown", "--name", "bigears", "--image", "whalefleet/centos",
			"--port", "22", "--port", "8080"))
		var node whalefleet.Node
		Expect(yaml.Unmarshal([]byte(out), &node)).To(Succeed())
		Expect(node).To(BeANode(
			HaveName("bigears"),
			HaveGroup("toytown"),
			HaveStatus(whalefleet.NodeRunning),
			HaveOsFamily(whalefleet.OsCentOS),
		))
		c, ok := f.mm.Container("bigears")
		Expect(ok).To(BeTrue())
		Expect(c.ExposedPorts).To(HaveKey(nat.Port("8080/tcp")))
		Eventually(sshd.Connections).Should(BeZero())
	})

	It("requires group and image when creating nodes", func() {
		Expect(whalefleetCmd(f, "nodes", "create", "--group", "toytown")).Error().To(
			MatchError(ContainSubstring(`"image" not set`)))
		Expect(f.mm.CallOps()).NotTo(ContainElement("ContainerCreate"))
	})

	It("suspends, resumes, reboots and destroys nodes", func() {
		Expect(whalefleetCmd(f, "nodes", "suspend", "noddy")).Error().NotTo(HaveOccurred())
		c, _ := f.mm.Container("noddy")
		Expect(c.Status).To(Equal(mockingmoby.MockedExited))

		Expect(whalefleetCmd(f, "nodes", "resume", "noddy")).Error().NotTo(HaveOccurred())
		c, _ = f.mm.Container("noddy")
		Expect(c.Status).To(Equal(mockingmoby.MockedRunning))

		Expect(whalefleetCmd(f, "nodes", "reboot", "noddy")).Error().NotTo(HaveOccurred())

		Expect(whalefleetCmd(f, "nodes", "destroy", "noddy")).Error().NotTo(HaveOccurred())
		Expect(f.mm.ContainerIDs()).To(BeEmpty())

		Expect(whalefleetCmd(f, "nodes", "destroy", "noddy")).Error().To(HaveOccurred())
	})

})
