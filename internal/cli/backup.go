package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/modules/backup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newBackupCommand(opts *globalOptions) *cobra.Command {
	var upload bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive all blog content as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			return opts.withDB(func(cfg *config.AppConfig, db *gorm.DB, logger *zap.Logger) error {
				if upload && !cfg.Backup.S3.Configured() {
					return errors.New("s3 upload requested but backup.s3 is not configured")
				}
				svc := backup.NewService(db, cfg.BackupDir(), cfg.Backup, logger.Named("backup"))
				a, err := svc.Create(time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Backup written to %s (%s).\n", a.Path, humanize.Bytes(uint64(a.Size)))
				if !upload {
					return nil
				}
				key, err := svc.Upload(cmd.Context(), a)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Uploaded to s3://%s/%s.\n", cfg.Backup.S3.Bucket, key)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the archive to the configured S3 bucket")
	return cmd
}
