package cli

import (
	"errors"
	"fmt"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/database"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/modules/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCategoryName = "Default"

func newInitDBCommand(opts *globalOptions) *cobra.Command {
	var drop, yes bool
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if drop && !yes {
				ok, err := newPrompter(cmd).confirm("This operation will delete the database, do you want to continue?")
				if err != nil {
					return err
				}
				if !ok {
					return errAborted
				}
			}
			return opts.withDB(func(_ *config.AppConfig, db *gorm.DB, _ *zap.Logger) error {
				if drop {
					if err := database.DropAll(db); err != nil {
						return err
					}
					fmt.Fprintln(out, "Drop tables.")
				}
				if err := database.CreateAll(db); err != nil {
					return err
				}
				fmt.Fprintln(out, "Initialized database.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "drop the tables before creating them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newInitCommand(opts *globalOptions) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up the blog and its administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			p := newPrompter(cmd)
			var err error
			for username == "" {
				if username, err = p.line("Username"); err != nil {
					return err
				}
			}
			for password == "" {
				if password, err = p.newSecret("Password"); err != nil {
					return err
				}
			}

			return opts.withDB(func(_ *config.AppConfig, db *gorm.DB, _ *zap.Logger) error {
				fmt.Fprintln(out, "Initializing the database...")
				if err := database.CreateAll(db); err != nil {
					return err
				}

				err := db.Transaction(func(tx *gorm.DB) error {
					_, created, err := account.NewService(tx).Init(username, password)
					if err != nil {
						return err
					}
					if created {
						fmt.Fprintln(out, "Creating the temporary administrator account...")
					} else {
						fmt.Fprintln(out, "The administrator already exists, updating...")
					}

					_, created, err = category.NewService(tx).EnsureDefault(defaultCategoryName)
					if err != nil {
						return err
					}
					if created {
						fmt.Fprintln(out, "Creating the default category...")
					}
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Done.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "administrator username (prompted when empty)")
	cmd.Flags().StringVar(&password, "password", "", "administrator password (prompted when empty)")
	return cmd
}

func newForgeCommand(opts *globalOptions) *cobra.Command {
	defaults := seed.DefaultOptions()
	o := defaults
	cmd := &cobra.Command{
		Use:   "forge",
		Short: "Reset the database and fill it with fake content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if o.Categories < 0 || o.Posts < 0 || o.Comments < 0 {
				return errors.New("counts must not be negative")
			}
			return opts.withDB(func(_ *config.AppConfig, db *gorm.DB, _ *zap.Logger) error {
				fmt.Fprintln(out, "Dropping and creating the tables...")
				if err := database.Reset(db); err != nil {
					return err
				}
				o.Progress = func(msg string) { fmt.Fprintln(out, msg) }
				_, err := seed.Forge(db, o)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&o.Categories, "category", defaults.Categories, "quantity of categories")
	cmd.Flags().IntVar(&o.Posts, "post", defaults.Posts, "quantity of posts")
	cmd.Flags().IntVar(&o.Comments, "comment", defaults.Comments, "quantity of comments")
	cmd.Flags().Int64Var(&o.Seed, "seed", 0, "random seed for reproducible output (0 is random)")
	return cmd
}
