package main

import (
	"context"
	"io"
	"os"

	"example/image-colorizer/internal/config"
	"example/image-colorizer/internal/deepai"
	"example/image-colorizer/internal/download"
	"example/image-colorizer/internal/gemini"
	"example/image-colorizer/internal/logger"
	"example/image-colorizer/internal/paths"
	"example/image-colorizer/internal/service"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

type rootOpts struct {
	envFile string
	debug   bool
	exclude []string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "image-colorizer <input-directory>",
		Short: "Colorize every image in a directory with a remote colorization API",
		Long: `image-colorizer walks the input directory, sends each image to the
colorization API and saves the results as <name>.jpg in <input-directory>-colorized.
Images that already have a result are skipped, so an interrupted run can be resumed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), opts, args[0], stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default .env if present)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringArrayVar(&opts.exclude, "exclude", nil, "glob of paths to skip, relative to the input directory (repeatable)")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, opts *rootOpts, arg string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	log := logger.New(stdout, stderr, logger.ParseLevel(cfg.LogLevel, opts.debug))
	ctx = logger.NewContext(ctx, log)

	walker, err := service.NewWalker(opts.exclude)
	if err != nil {
		return err
	}

	inputDir, err := paths.NewResolver(cfg.HomeDir).Resolve(arg)
	if err != nil {
		return err
	}
	log.Infof("Directory: %s", inputDir)

	outputDir := paths.OutputPath(inputDir)
	log.Infof("Outputting results to %s", outputDir)

	created, err := paths.EnsureOutputDir(outputDir)
	if err != nil {
		return err
	}
	if created {
		log.Successf("Created output dir %s", outputDir)
	}

	colorizer, err := newColorizer(ctx, cfg)
	if err != nil {
		return err
	}

	processor := service.NewImageProcessor(colorizer, download.New(cfg.Timeout), walker)
	if _, err := processor.ProcessImages(ctx, inputDir, outputDir); err != nil {
		return err
	}
	return nil
}

func newColorizer(ctx context.Context, cfg *config.Config) (service.Colorizer, error) {
	switch cfg.Backend {
	case config.BackendGemini:
		client, err := gemini.SetupClient(ctx, cfg.Project, cfg.Location)
		if err != nil {
			return nil, err
		}
		return gemini.NewColorizer(client, cfg.Model), nil
	default:
		return deepai.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Timeout), nil
	}
}
