package command

import (
	"fmt"

	"volunteer_map_backend/platform/db"

	"github.com/spf13/cobra"
)

var statusOnly bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema migrations",
	Long: `Apply every pending embedded schema migration, creating the PostGIS
extension and the volunteers table when they are missing.
With --status nothing is applied and the state of each migration is
printed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		pool, err := connect(ctx, e)
		if err != nil {
			return err
		}
		defer pool.Close()

		w := cmd.OutOrStdout()
		if !statusOnly {
			applied, err := db.RunMigrations(ctx, pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(w, "schema is up to date")
			}
			for _, v := range applied {
				fmt.Fprintf(w, "applied %05d\n", v)
			}
		}

		statuses, err := db.Status(ctx, pool)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(w, "%05d  %-8s %s\n", s.Version, state, s.Name)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&statusOnly, "status", false, "only print migration status")
}
