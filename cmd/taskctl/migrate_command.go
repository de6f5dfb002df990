package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"taskboard/internal/db"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDB(func(gormDB *gorm.DB) error {
				out := cmd.OutOrStdout()
				if reset {
					if err := db.Reset(gormDB); err != nil {
						return err
					}
					fmt.Fprintln(out, "Dropped all tables")
				}
				if err := db.Migrate(gormDB); err != nil {
					return err
				}
				fmt.Fprintf(out, "Schema up to date (%s)\n", gormDB.Dialector.Name())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Drop every table before migrating")
	return cmd
}
