// Command amuletd serves the capability validator over gRPC.
package main

import (
	"flag"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"amulet.dev/core/capability"
	"amulet.dev/core/grpcauth"
	"amulet.dev/core/store"
)

func main() {
	fs := flag.NewFlagSet("amuletd", flag.ExitOnError)
	configPath := fs.String("config", "amuletd.toml", "path to the daemon config file")
	listen := fs.String("listen", "", "listen address (overrides config)")
	_ = fs.Parse(os.Args[1:])

	logger := initLogger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	logger = leveledLogger(logger, cfg.LogLevel)

	reg, err := cfg.registry()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build suite registry")
	}

	var st store.RecordStore
	if cfg.Backend == "pebble" {
		st, err = store.OpenPebble(cfg.DataDir)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open record store")
		}
		defer st.Close()
	}

	var table *capability.Table
	if st != nil {
		table, err = capability.NewTableWithStore(st)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load record table")
		}
	} else {
		table = capability.NewTable()
	}

	validator := capability.NewValidator(reg, table, cfg.policy())
	clock := capability.NewClock(capability.Tick(cfg.StartTick))

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		logger.Fatal().Err(err).Str("listen", cfg.Listen).Msg("failed to listen")
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcauth.RegisterValidatorServer(s, &grpcauth.Server{Validator: validator, Clock: clock})

	logger.Info().
		Str("listen", lis.Addr().String()).
		Str("backend", cfg.Backend).
		Int("records", table.Len()).
		Uints16("suites", reg.IDs()).
		Msg("amuletd listening")
	if err := s.Serve(lis); err != nil {
		logger.Fatal().Err(err).Msg("amuletd stopped")
	}
}

func initLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "amuletd").Logger()
}

func leveledLogger(logger zerolog.Logger, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return logger
	}
	return logger.Level(lvl)
}
