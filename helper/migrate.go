package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"hotel/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
	ActionForce   = "force"
)

var ErrUnknownAction = errors.New("unknown migration action")

// migration runs one action. arg is only read by force.
type migration func(mig *migrate.Migrate, arg string) error

var migrations = map[string]migration{
	ActionUp: func(mig *migrate.Migrate, _ string) error {
		return mig.Up()
	},
	ActionDown: func(mig *migrate.Migrate, _ string) error {
		return mig.Steps(-1)
	},
	ActionStepUp: func(mig *migrate.Migrate, _ string) error {
		return mig.Steps(1)
	},
	ActionDrop: func(mig *migrate.Migrate, _ string) error {
		return mig.Down()
	},
	ActionVersion: func(mig *migrate.Migrate, _ string) error {
		version, dirty, err := mig.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info().Msg("No migration has been applied yet")

			return nil
		}

		if err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	},
	ActionForce: func(mig *migrate.Migrate, arg string) error {
		version, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("force needs a numeric version, got %q: %w", arg, err)
		}

		return mig.Force(version)
	},
}

// DatabaseURL builds the migrate DSN for the write connection.
func DatabaseURL(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)

	if cfg.DB.Postgres.MigrationTable != "" {
		query.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     cfg.DB.Postgres.Prefix + write.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Runner applies action to the hotel schema. ErrNoChange is not an error.
func Runner(cfg *config.Config, action string, args ...string) error {
	run, ok := migrations[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	mig, err := migrate.New(cfg.DB.Postgres.MigrationPath, DatabaseURL(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Failed to close migrate instance")
		}
	}()

	if err = run(mig, arg); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
