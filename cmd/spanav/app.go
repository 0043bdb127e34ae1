package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/jackielii/spanav"
	"github.com/jackielii/spanav/internal/config"
	"github.com/jackielii/spanav/internal/views"
	"github.com/jackielii/spanav/loaders"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	return cfg, nil
}

// buildTable wires the configured fragment source into the view registry
// and builds the declared table.
func buildTable(cfg *config.Config) (*spanav.Table, error) {
	source := func(file string) spanav.Loader {
		return loaders.FS(views.Fragments(), file)
	}
	switch {
	case cfg.Views.S3.Bucket != "":
		client := loaders.NewS3Client(cfg.Views.S3.Region, cfg.Views.S3.Endpoint)
		source = func(file string) spanav.Loader {
			return loaders.S3(client, cfg.Views.S3.Bucket, path.Join(cfg.Views.S3.Prefix, file))
		}
	case cfg.Views.Dir != "":
		dir := os.DirFS(cfg.Views.Dir)
		source = func(file string) spanav.Loader {
			return loaders.FS(dir, file)
		}
	}
	reg, err := views.Registry(source)
	if err != nil {
		return nil, err
	}
	return spanav.BuildTable(cfg.Routes, reg)
}
