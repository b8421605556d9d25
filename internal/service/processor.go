package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"example/image-colorizer/internal/logger"
	"example/image-colorizer/internal/model"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const outputExt = ".jpg"

type Colorizer interface {
	ColorizeFile(ctx context.Context, path string) (string, error)
	ColorizeURL(ctx context.Context, url string) (string, error)
}

type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

type ImageProcessor struct {
	colorizer  Colorizer
	downloader Downloader
	walker     *Walker
}

func NewImageProcessor(colorizer Colorizer, downloader Downloader, walker *Walker) *ImageProcessor {
	return &ImageProcessor{
		colorizer:  colorizer,
		downloader: downloader,
		walker:     walker,
	}
}

// ProcessImages colorizes every image under imageDir into outputDir, one at
// a time. Per-file failures are logged and counted; only walk errors are returned.
func (p *ImageProcessor) ProcessImages(ctx context.Context, imageDir, outputDir string) (model.Summary, error) {
	log := logger.FromContext(ctx)

	var summary model.Summary
	images := make(chan Image)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(images)
		return p.walker.Walk(gctx, imageDir, func(img Image) error {
			select {
			case images <- img:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	g.Go(func() error {
		for img := range images {
			log.Progress(img.Path, img.Index, img.DirTotal)

			result := p.processImage(gctx, img.Path, outputDir)
			switch result.Outcome {
			case model.Succeeded:
				log.FileSucceeded(result.Source, result.Dest)
			case model.Skipped:
				log.FileSkipped(result.Source, result.Dest)
			case model.Failed:
				log.FileFailed(result.Source, result.Err)
			}
			summary.Add(result)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return summary, err
	}

	log.Infof("Done: %d images, %d colorized, %d skipped, %d failed",
		summary.Total, summary.Succeeded, summary.Skipped, summary.Failed)
	return summary, nil
}

func (p *ImageProcessor) processImage(ctx context.Context, imagePath, outputDir string) model.Result {
	result := model.Result{
		Source: imagePath,
		Dest:   DestinationPath(outputDir, imagePath),
	}

	if _, err := os.Stat(result.Dest); err == nil {
		result.Outcome = model.Skipped
		return result
	}

	url, err := p.colorizer.ColorizeFile(ctx, imagePath)
	if err != nil {
		result.Outcome = model.Failed
		result.Err = errors.Errorf("colorizing: %w", err)
		return result
	}

	if err := p.downloader.Download(ctx, url, result.Dest); err != nil {
		result.Outcome = model.Failed
		result.Err = errors.Errorf("downloading result: %w", err)
		return result
	}

	result.Outcome = model.Succeeded
	return result
}

// DestinationPath flattens src into outputDir as <stem>.jpg. Sources with the
// same stem in different directories map to the same destination.
func DestinationPath(outputDir, src string) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+outputExt)
}
