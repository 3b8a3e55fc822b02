package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"volunteer_map_backend/platform/config"

	"github.com/spf13/cobra"
)

var errMissingPassword = errors.New("DB_PASSWORD is empty; set it in .env")

var checkEnvCmd = &cobra.Command{
	Use:   "check-env",
	Short: "Print the effective configuration with secrets masked",
	Long: `Print the effective database, HTTP and geocoder configuration.
The database password and provider keys are masked. The command fails
when DB_PASSWORD is empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), e.cfg)
		if e.cfg.MissingPassword() {
			return errMissingPassword
		}
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = "(none)"
	}
	rows := [][2]string{
		{"env", cfg.Env},
		{"env file", envFile},
		{"http addr", cfg.HTTPAddr},
		{"database", cfg.MaskedDatabaseURL()},
		{"db host", cfg.DBHost},
		{"db port", fmt.Sprint(cfg.DBPort)},
		{"db name", cfg.DBName},
		{"db user", cfg.DBUser},
		{"db password", mask(cfg.DBPassword)},
		{"migrations", fmt.Sprint(cfg.MigrationsEnabled)},
		{"cors origins", strings.Join(cfg.CORSOrigins, ",")},
		{"geocoder", cfg.GeocoderProvider},
		{"geocoder timeout", cfg.GeocoderTimeout.String()},
		{"fallback interval", cfg.GeocoderMinInterval.String()},
		{"geocoder language", cfg.GeocoderLanguage},
		{"nominatim url", cfg.NominatimURL},
		{"opencage key", mask(cfg.OpenCageAPIKey)},
		{"mapbox token", mask(cfg.MapboxToken)},
		{"phone region", cfg.PhoneDefaultRegion},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-18s %s\n", row[0]+":", row[1])
	}
}

func mask(secret string) string {
	if strings.TrimSpace(secret) == "" {
		return "(empty)"
	}
	return "****"
}
