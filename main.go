package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/atmos-collective/atmos-site-backend/api"
	"github.com/atmos-collective/atmos-site-backend/config"
	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/seed"
	"github.com/atmos-collective/atmos-site-backend/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	c := config.New()
	ctx := context.Background()

	if err := config.LoadSSMParameters(ctx, c); err != nil {
		log.Fatal().Err(err).Msg("Error loading SSM parameters")
	}

	db, err := database.Connect(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)

	if config.GetBool(c, "MIGRATE", false) {
		log.Info().Msg("Migrating schema...")
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating schema")
		}
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	timezone := config.GetString(c, "SITE_TIMEZONE", "Europe/London")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", timezone).Msg("Unknown SITE_TIMEZONE")
	}

	seedPath := config.GetString(c, "SEED_FILE", "")
	adminEmail := config.GetString(c, "SEED_ADMIN_EMAIL", "")
	if seedPath != "" || adminEmail != "" {
		report, err := seed.New(currentDB).Run(ctx, seed.Config{
			Path:          seedPath,
			AdminEmail:    adminEmail,
			AdminPassword: config.GetString(c, "SEED_ADMIN_PASSWORD", ""),
			Location:      loc,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Error seeding database")
		}
		log.Info().Interface("report", report).Msg("Seed finished")
		if seedPath != "" && config.GetBool(c, "SEED_ONLY", false) {
			return
		}
	}

	opts, err := buildServerOptions(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring services")
	}

	if admins, err := currentDB.UserRepo().CountAdmins(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not count admin users")
	} else if admins == 0 {
		log.Warn().Msg("No admin users exist; set SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD to create one")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, c, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// buildServerOptions wires storage, auth and notifications from config.
// Storage and notifications are optional; a JWT secret is not.
func buildServerOptions(ctx context.Context, c map[string]string) ([]api.Option, error) {
	tokens, err := services.NewTokenIssuer(
		config.GetString(c, "JWT_SECRET", ""),
		time.Duration(config.GetInt(c, "JWT_TTL_HOURS", 24))*time.Hour,
	)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	opts := []api.Option{api.WithTokenIssuer(tokens)}

	s3, err := services.NewS3Helper(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}
	if s3 != nil {
		log.Info().Str("bucket", s3.Bucket()).Msg("File storage enabled")
		opts = append(opts, api.WithObjectStore(s3))
	} else {
		log.Warn().Msg("S3_BUCKET not set; file uploads are disabled")
	}
	opts = append(opts, api.WithResolver(services.NewMediaResolver(config.GetString(c, "MEDIA_BASE_URL", ""), s3)))

	notifier := services.NewContactNotifier(
		services.NewMailer(c),
		config.GetList(c, "CONTACT_NOTIFY_EMAILS"),
		services.NewSMSSender(c),
		config.GetList(c, "CONTACT_NOTIFY_SMS"),
	)
	if !notifier.Enabled() {
		log.Warn().Msg("Contact notifications are disabled")
	}
	opts = append(opts, api.WithNotifier(notifier))

	return opts, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-ch)
}
