// Package cli implements the myblog command line: the HTTP server plus the
// database maintenance commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/database"
	"github.com/myblog/core/internal/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type globalOptions struct {
	configPath string
	profile    string
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree reading prompts from in and
// printing to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "myblog",
		Short:         "A personal blog with an admin dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file (default "+config.DefaultConfigPath+")")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "config profile: development, testing or production (default $"+config.EnvProfile+")")

	root.AddCommand(
		newServeCommand(opts),
		newInitDBCommand(opts),
		newInitCommand(opts),
		newForgeCommand(opts),
		newBackupCommand(opts),
	)
	return root
}

func (o *globalOptions) load() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(o.profile, o.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}

// withDB loads the config, opens the database and hands both to fn.
func (o *globalOptions) withDB(fn func(cfg *config.AppConfig, db *gorm.DB, logger *zap.Logger) error) error {
	cfg, logger, err := o.load()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer database.Close(db) //nolint:errcheck
	return fn(cfg, db, logger)
}
