package command

import (
	"errors"
	"fmt"
	"strings"

	"volunteer_map_backend/internal/geocoding"

	"github.com/spf13/cobra"
)

var errNotResolved = errors.New("address could not be geocoded")

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve an address through the configured geocoder chain",
	Long: `Resolve an address through the configured geocoder chain, the same
primary provider and throttled Nominatim fallback the API server uses.
All arguments are joined with spaces to form the address.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		resolver, err := geocoding.NewFromConfig(e.cfg, e.log, nil)
		if err != nil {
			return fmt.Errorf("building geocoder: %w", err)
		}

		address := strings.Join(args, " ")
		coord, ok := resolver.Resolve(ctx, address)
		if !ok {
			return fmt.Errorf("%w: %q (strategies: %s)", errNotResolved, address, strings.Join(resolver.Strategies(), ", "))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.6f\n", coord.Lat, coord.Lon)
		return nil
	},
}
