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

package moby

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/thediveo/whalefleet/engineclient"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("Docker engine end-to-end", Ordered, func() {

	var me *MobyEngine

	BeforeAll(func() {
		moby := Successful(client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation()))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := moby.Ping(ctx); err != nil {
			_ = moby.Close()
			Skip("no Docker engine reachable: " + err.Error())
		}
		me = NewMobyEngine(moby)
		DeferCleanup(func() { _ = me.Close() })
	})

	It("queries the engine version", func(ctx context.Context) {
		version := Successful(me.Version(ctx))
		Expect(version.Version).NotTo(BeEmpty())
		Expect(version.APIVersion).NotTo(BeEmpty())
		Expect(version.Os).To(Equal("linux"))
	})

	It("lists containers and images", func(ctx context.Context) {
		containers := Successful(me.List(ctx, engineclient.ListOptions{All: true}))
		for _, rec := range containers {
			Expect(rec.ID).NotTo(BeEmpty())
			Expect(rec.Status).NotTo(BeEmpty())
		}
		images := Successful(me.Images(ctx, true))
		for _, rec := range images {
			Expect(rec.ID).To(HavePrefix("sha256:"))
		}
	})

	It("doesn't find non-existing containers", func(ctx context.Context) {
		Expect(me.Inspect(ctx, "whalefleet-nada-nothing-nil")).Error().To(
			Satisfy(engineclient.IsNotFound))
	})

	Context("with containers and images", Ordered, func() {

		const testimage = "busybox"
		const testimageTag = "latest"

		BeforeAll(func(ctx context.Context) {
			if err := me.Pull(ctx, engineclient.PullOptions{
				FromImage: testimage,
				Tag:       testimageTag,
			}); err != nil {
				Skip("cannot pull " + testimage + ": " + err.Error())
			}
		})

		It("binds ports only when starting a container", func(ctx context.Context) {
			l := Successful(net.Listen("tcp", "127.0.0.1:0"))
			fixedport := l.Addr().(*net.TCPAddr).Port
			Expect(l.Close()).To(Succeed())

			rec := Successful(me.Create(ctx, engineclient.ContainerCreateSpec{
				Name:  "whalefleet-e2e-" + strconv.Itoa(fixedport),
				Image: testimage + ":" + testimageTag,
				Cmd:   []string{"sleep", "300"},
				ExposedPorts: nat.PortSet{
					"22/tcp": struct{}{},
					"7/tcp":  struct{}{},
				},
				Labels: map[string]string{"whalefleet.e2e": "true"},
			}, &engineclient.HostBindingSpec{
				PortBindings: nat.PortMap{
					"7/tcp": []nat.PortBinding{{HostPort: strconv.Itoa(fixedport)}},
				},
				PublishAllPorts: true,
			}))
			DeferCleanup(func(ctx context.Context) {
				Expect(me.Remove(ctx, rec.ID, true)).To(Succeed())
			})
			Expect(rec.ID).NotTo(BeEmpty())

			created := Successful(me.Inspect(ctx, rec.ID))
			Expect(created.State.Running).To(BeFalse())
			Expect(created.HostConfig.PublishAllPorts).To(BeTrue())
			Expect(created.HostConfig.PortBindings).To(HaveKey(nat.Port("7/tcp")))

			Expect(me.Start(ctx, rec.ID)).To(Succeed())
			started := Successful(me.Inspect(ctx, rec.ID))
			Expect(started.State.Running).To(BeTrue())
			Expect(started.Labels).To(HaveKeyWithValue("whalefleet.e2e", "true"))
			Expect(started.NetworkSettings.Ports).To(HaveKey(nat.Port("22/tcp")))
			Expect(started.NetworkSettings.Ports["22/tcp"]).To(ContainElement(
				HaveField("HostPort", Not(Or(BeEmpty(), Equal("0"))))))
			Expect(started.NetworkSettings.Ports["7/tcp"]).To(ContainElement(
				HaveField("HostPort", strconv.Itoa(fixedport))))

			containers := Successful(me.List(ctx, engineclient.ListOptions{All: true}))
			Expect(containers).To(ContainElement(And(
				HaveField("ID", rec.ID),
				HaveField("Status", HavePrefix("Up")),
				HaveField("Ports", ContainElement(And(
					HaveField("PrivatePort", uint16(22)),
					HaveField("PublicPort", Not(BeZero())))))),
			))
		})

		It("builds an image", func(ctx context.Context) {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "Dockerfile"),
				[]byte("FROM "+testimage+":"+testimageTag+"\nLABEL whalefleet.e2e=true\n"), 0o644)).
				To(Succeed())
			const tag = "whalefleet/e2e-build:latest"
			Expect(me.Build(ctx, engineclient.BuildOptions{
				Tag:        tag,
				ContextDir: dir,
				Quiet:      true,
			})).To(Succeed())
			DeferCleanup(func(ctx context.Context) {
				Expect(me.RemoveImage(ctx, tag)).To(Succeed())
			})
			Expect(me.Images(ctx, false)).To(ContainElement(
				HaveField("RepoTags", ContainElement(tag))))
		})

	})

})
