package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"subprofile/internal/blob"
	"subprofile/internal/catalog"
	"subprofile/internal/config"
	"subprofile/internal/core"
	"subprofile/internal/logging"
	"subprofile/pkg/domain"
)

// app carries the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath    string
	storageDriver string
	logLevel      string

	cfg     config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}
	root := &cobra.Command{
		Use:          "subprofile",
		Short:        "Record and search subproject profiles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&a.storageDriver, "storage-driver", "", "record store backend: memory|blob|sqlite|postgres")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(
		newServeCmd(a),
		newAddCmd(a),
		newSearchCmd(a),
		newUpdateCmd(a),
		newRegionsCmd(a),
		newProvincesCmd(a),
		newMunicipalitiesCmd(a),
		newTypesCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.storageDriver != "" {
		cfg.Storage.Driver = a.storageDriver
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Development: cfg.Logging.Development})
	if err != nil {
		return err
	}
	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	a.catalog = cat
	return nil
}

// storageOptions maps the configuration onto the store factory.
func storageOptions(cfg config.Config) core.StorageOptions {
	return core.StorageOptions{
		Driver:      core.StorageDriver(cfg.Storage.Driver),
		Key:         cfg.Storage.Key,
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
		Blob: blob.Config{
			Driver: blob.Driver(cfg.Blob.Driver),
			FSRoot: cfg.Blob.FSRoot,
			S3: blob.S3Config{
				Bucket:    cfg.Blob.S3.Bucket,
				Region:    cfg.Blob.S3.Region,
				Endpoint:  cfg.Blob.S3.Endpoint,
				PathStyle: cfg.Blob.S3.PathStyle,
			},
		},
	}
}

// openStore opens the configured record store. The returned func releases
// backends that hold connections or files.
func (a *app) openStore(ctx context.Context) (domain.RecordStore, func(), error) {
	store, err := core.OpenRecordStore(ctx, storageOptions(a.cfg))
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				a.logger.Warn("close record store", zap.Error(err))
			}
		}
	}
	a.logger.Debug("record store opened", zap.String("driver", a.cfg.Storage.Driver), zap.String("key", a.cfg.Storage.Key))
	return store, release, nil
}
