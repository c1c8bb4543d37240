package docker

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"

	"github.com/devrs/devrs/internal/devrserr"
	"github.com/devrs/devrs/internal/log"
)

// ImageSummary is a trimmed view of the daemon's image listing.
type ImageSummary struct {
	ID      string
	Tags    []string
	Size    int64
	Created int64
}

// ImageExists reports whether ref resolves to a local image, treating a 404
// from the daemon as a normal "no" rather than an error.
func (c *Client) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, err := c.cli.ImageInspect(ctx, ref)
	if err == nil {
		return true, nil
	}
	if errdefs.IsNotFound(err) {
		return false, nil
	}
	return false, devrserr.NewDaemonOperation(fmt.Errorf("inspecting image %s: %w", ref, err))
}

// InspectImage returns the daemon's full metadata for ref.
func (c *Client) InspectImage(ctx context.Context, ref string) (image.InspectResponse, error) {
	info, err := c.cli.ImageInspect(ctx, ref)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return image.InspectResponse{}, devrserr.NewImageNotFound(ref)
		}
		return image.InspectResponse{}, devrserr.NewDaemonOperation(fmt.Errorf("inspecting image %s: %w", ref, err))
	}
	return info, nil
}

// ListImages returns every image known to the daemon, optionally including
// intermediate/untagged layers when all is true.
func (c *Client) ListImages(ctx context.Context, all bool) ([]ImageSummary, error) {
	images, err := c.cli.ImageList(ctx, image.ListOptions{All: all})
	if err != nil {
		return nil, devrserr.NewDaemonOperation(fmt.Errorf("listing images: %w", err))
	}

	result := make([]ImageSummary, 0, len(images))
	for _, img := range images {
		result = append(result, ImageSummary{
			ID:      img.ID,
			Tags:    img.RepoTags,
			Size:    img.Size,
			Created: img.Created,
		})
	}
	return result, nil
}

// RemoveImage deletes ref. 404 is classified as ImageNotFound; 409 (the
// image is in use by a container) is classified as ImageInUse, whose
// message hints to stop the container first.
func (c *Client) RemoveImage(ctx context.Context, ref string, force bool) error {
	items, err := c.cli.ImageRemove(ctx, ref, image.RemoveOptions{Force: force, PruneChildren: false})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return devrserr.NewImageNotFound(ref)
		}
		if errdefs.IsConflict(err) {
			return devrserr.NewImageInUse(ref)
		}
		return devrserr.NewDaemonOperation(fmt.Errorf("removing image %s: %w", ref, err))
	}

	for _, item := range items {
		if item.Deleted != "" {
			log.Info("image layer deleted", "id", item.Deleted)
		}
		if item.Untagged != "" {
			log.Info("image untagged", "tag", item.Untagged)
		}
	}
	return nil
}

// BuildOptions configures an image build.
type BuildOptions struct {
	DockerfilePath string // relative to ContextDir, e.g. "Dockerfile"
	ContextDir     string
	NoCache        bool
}

// buildFrame mirrors the daemon's streamed JSON build-event shape.
type buildFrame struct {
	Stream      string `json:"stream"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// BuildImage tars ContextDir, sends it to the daemon, and streams the
// resulting build log to stdout, flushing per chunk. An error frame in the
// stream aborts the build and is reported as BuildFailed.
func (c *Client) BuildImage(ctx context.Context, tag string, opts BuildOptions) error {
	contextTar, err := tarDirectory(opts.ContextDir)
	if err != nil {
		return devrserr.NewDaemonOperation(fmt.Errorf("preparing build context: %w", err))
	}

	resp, err := c.cli.ImageBuild(ctx, contextTar, build.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: opts.DockerfilePath,
		Remove:     true,
		NoCache:    opts.NoCache,
	})
	if err != nil {
		return devrserr.NewDaemonOperation(fmt.Errorf("starting build: %w", err))
	}
	defer resp.Body.Close()

	decoder := json.NewDecoder(resp.Body)
	for {
		var frame buildFrame
		if err := decoder.Decode(&frame); err != nil {
			if err == io.EOF {
				return nil
			}
			return devrserr.NewDaemonOperation(fmt.Errorf("reading build output: %w", err))
		}
		if frame.Error != "" {
			return devrserr.NewBuildFailed(frame.Error, frame.ErrorDetail.Message)
		}
		if frame.Stream != "" {
			fmt.Print(frame.Stream)
		}
	}
}

// tarDirectory gzips a tar of dir's contents, rooted at dir itself, for use
// as a Docker build context. Symlinks that resolve outside dir are skipped
// rather than followed, so a crafted link can't smuggle host files in.
func tarDirectory(dir string) (io.Reader, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := addDirToTar(tw, dir, ""); err != nil {
		tw.Close()
		gz.Close()
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
