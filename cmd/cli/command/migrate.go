package command

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// migrateCmd brings the schema up to date. ConnectDB already migrates, so
// this is the explicit form for deploy scripts.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
