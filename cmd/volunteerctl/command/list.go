package command

import (
	"fmt"
	"text/tabwriter"

	"volunteer_map_backend/internal/volunteers/repository"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored volunteers, newest first",
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

		volunteers, err := repository.New(pool).List(ctx)
		if err != nil {
			return fmt.Errorf("listing volunteers: %w", err)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPHONE\tE164\tLAT\tLON\tCREATED\tADDRESS")
		for _, v := range volunteers {
			e164 := "-"
			if v.PhoneE164 != nil {
				e164 = *v.PhoneE164
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.6f\t%.6f\t%s\t%s\n",
				v.ID, v.Name, v.Phone, e164, v.Latitude, v.Longitude,
				v.CreatedAt.Format("2006-01-02 15:04"), v.Address)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d volunteer(s)\n", len(volunteers))
		return nil
	},
}
