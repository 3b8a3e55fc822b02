package command

import (
	"fmt"

	"volunteer_map_backend/platform/db"

	"github.com/spf13/cobra"
)

var checkDBCmd = &cobra.Command{
	Use:   "check-db",
	Short: "Check database connectivity and the volunteers table",
	Args:  cobra.NoArgs,
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

		report, err := db.Inspect(ctx, pool)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "connected:         %s\n", e.cfg.MaskedDatabaseURL())
		fmt.Fprintf(w, "server time:       %s\n", report.ServerTime.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "server version:    %s\n", report.ServerVersion)
		if report.PostGISVersion == "" {
			fmt.Fprintln(w, "postgis:           not installed")
		} else {
			fmt.Fprintf(w, "postgis:           %s\n", report.PostGISVersion)
		}
		if !report.TableExists {
			fmt.Fprintln(w, "volunteers table:  missing (run volunteerctl migrate)")
			return nil
		}
		fmt.Fprintf(w, "volunteers table:  present, %d rows\n", report.VolunteerCount)
		return nil
	},
}
