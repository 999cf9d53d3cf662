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

package mockingmoby

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-connections/nat"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

// buildContext returns a tar build context containing the specified files.
func buildContext(files map[string]string) io.Reader {
	var buff bytes.Buffer
	tw := tar.NewWriter(&buff)
	for name, contents := range files {
		Expect(tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(contents)),
		})).To(Succeed())
		Successful(tw.Write([]byte(contents)))
	}
	Expect(tw.Close()).To(Succeed())
	return &buff
}

func drained(r io.ReadCloser) error {
	defer r.Close()
	return jsonmessage.DisplayJSONMessagesStream(r, io.Discard, 0, false, nil)
}

var _ = Describe("container lifecycle", func() {

	var mm *MockingMoby

	BeforeEach(func() {
		mm = NewMockingMoby()
		mm.AddImage(centosImage)
	})

	It("creates, starts, stops, and removes a container", func(ctx context.Context) {
		created := Successful(mm.ContainerCreate(ctx,
			&container.Config{
				Image:        "whalefleet/centos",
				ExposedPorts: nat.PortSet{"22/tcp": {}},
				Labels:       map[string]string{"foo": "bar"},
			},
			&container.HostConfig{PublishAllPorts: true},
			nil, nil, "clever_clown"))
		Expect(created.ID).To(HaveLen(64))

		c, ok := mm.Container("clever_clown")
		Expect(ok).To(BeTrue())
		Expect(c.Status).To(Equal(MockedCreated))
		Expect(c.Image).To(Equal(centosImage.ID))
		Expect(c.Ports).To(BeNil())

		Expect(mm.ContainerStart(ctx, created.ID, container.StartOptions{})).To(Succeed())
		c, _ = mm.Container(created.ID)
		Expect(c.Status).To(Equal(MockedRunning))
		Expect(c.PID).To(Equal(MockedPID))
		Expect(c.Ports).To(HaveKeyWithValue(nat.Port("22/tcp"),
			ConsistOf(nat.PortBinding{HostIP: "0.0.0.0", HostPort: "32768"})))

		Expect(mm.ContainerRemove(ctx, created.ID, container.RemoveOptions{})).To(
			MatchError(cerrdefs.ErrConflict))
		Expect(mm.ContainerStop(ctx, created.ID, container.StopOptions{})).To(Succeed())
		Expect(mm.ContainerRemove(ctx, created.ID, container.RemoveOptions{})).To(Succeed())
		Expect(mm.ContainerIDs()).To(BeEmpty())

		Expect(mm.CallOps()).To(Equal([]string{
			"ContainerCreate", "ContainerStart", "ContainerRemove", "ContainerStop", "ContainerRemove"}))
	})

	It("force-removes running containers", func(ctx context.Context) {
		mm.AddContainer(furiousFuruncle)
		Expect(mm.ContainerRemove(ctx, furiousFuruncle.ID, container.RemoveOptions{Force: true})).To(Succeed())
		_, ok := mm.Container(furiousFuruncle.ID)
		Expect(ok).To(BeFalse())
	})

	It("rejects creating from unknown images and duplicate names", func(ctx context.Context) {
		Expect(mm.ContainerCreate(ctx, &container.Config{Image: "foo/bar"}, nil, nil, nil, "")).Error().To(
			MatchError(cerrdefs.ErrNotFound))
		Successful(mm.ContainerCreate(ctx, &container.Config{Image: centosImage.ID}, nil, nil, nil, "twin"))
		Expect(mm.ContainerCreate(ctx, &container.Config{Image: centosImage.ID}, nil, nil, nil, "twin")).Error().To(
			MatchError(cerrdefs.ErrConflict))
	})

	It("reports missing containers", func(ctx context.Context) {
		Expect(cerrdefs.IsNotFound(mm.ContainerStart(ctx, "foo", container.StartOptions{}))).To(BeTrue())
		Expect(cerrdefs.IsNotFound(mm.ContainerStop(ctx, "foo", container.StopOptions{}))).To(BeTrue())
		Expect(cerrdefs.IsNotFound(mm.ContainerRemove(ctx, "foo", container.RemoveOptions{}))).To(BeTrue())
	})

	It("commits containers into images", func(ctx context.Context) {
		mm.AddContainer(furiousFuruncle)
		resp := Successful(mm.ContainerCommit(ctx, furiousFuruncle.ID, container.CommitOptions{Reference: "foo/snapshot"}))
		img, ok := mm.Image("foo/snapshot:latest")
		Expect(ok).To(BeTrue())
		Expect(img.ID).To(Equal(resp.ID))
	})

	It("fails via hooks", func(ctx context.Context) {
		doh := errors.New("doh!")
		Expect(mm.ContainerCreate(WithHook(ctx, ContainerCreatePre, func(HookKey) error { return doh }),
			&container.Config{Image: centosImage.ID}, nil, nil, nil, "")).Error().To(MatchError(doh))
		Expect(mm.ContainerIDs()).To(BeEmpty())
	})

})

var _ = Describe("images", func() {

	It("builds images", func(ctx context.Context) {
		mm := NewMockingMoby()
		resp := Successful(mm.ImageBuild(ctx,
			buildContext(map[string]string{"Dockerfile": "FROM scratch\n"}),
			build.ImageBuildOptions{Tags: []string{"whalefleet/ubuntu"}}))
		Expect(drained(resp.Body)).To(Succeed())
		img, ok := mm.Image("whalefleet/ubuntu:latest")
		Expect(ok).To(BeTrue())
		Expect(img.Size).To(BeEquivalentTo(MockedImageSize))
	})

	It("reports build failures in the progress stream", func(ctx context.Context) {
		mm := NewMockingMoby()
		resp := Successful(mm.ImageBuild(ctx,
			buildContext(map[string]string{"README": "nope"}),
			build.ImageBuildOptions{Tags: []string{"whalefleet/ubuntu"}}))
		Expect(drained(resp.Body)).To(MatchError(ContainSubstring("Cannot locate specified Dockerfile")))

		mm.FailBuilds("kaputt")
		resp = Successful(mm.ImageBuild(ctx,
			buildContext(map[string]string{"Dockerfile": "FROM scratch\n"}),
			build.ImageBuildOptions{Tags: []string{"whalefleet/ubuntu"}}))
		Expect(drained(resp.Body)).To(MatchError(ContainSubstring("kaputt")))
		Expect(mm.ImageList(ctx, image.ListOptions{})).To(BeEmpty())
	})

	It("pulls, lists, and removes images", func(ctx context.Context) {
		mm := NewMockingMoby()
		mm.AddImage(centosImage)
		Expect(drained(Successful(mm.ImageCreate(ctx, "busybox:latest", image.CreateOptions{})))).To(Succeed())
		Expect(drained(Successful(mm.ImageImport(ctx, image.ImportSource{SourceName: "http://example.org/rootfs.tar"},
			"imported:v1", image.ImportOptions{})))).To(Succeed())

		imgs := Successful(mm.ImageList(ctx, image.ListOptions{}))
		Expect(imgs).To(HaveLen(3))
		Expect(imgs[2].ID).To(Equal(centosImage.ID))

		Expect(mm.ImageRemove(ctx, "busybox", image.RemoveOptions{})).To(HaveLen(1))
		Expect(mm.ImageRemove(ctx, "busybox", image.RemoveOptions{})).Error().To(MatchError(cerrdefs.ErrNotFound))
		Expect(mm.ImageList(ctx, image.ListOptions{})).To(HaveLen(2))
	})

	It("reports a version", func(ctx context.Context) {
		mm := NewMockingMoby()
		Expect(mm.ServerVersion(ctx)).To(HaveField("Version", MockedVersion))
	})

})
