package main

import (
	"context"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"courier/internal/app"
	"courier/pkg/config"
	"courier/pkg/logger"
	"courier/pkg/shutdown"
)

// build metadata - set via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load(".env")
	addrVal, dbVal, cfgVal, setFlags := config.ParseCommandFlags()

	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])
	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.Logging.Level)

	// Flags explicitly set win over env and config file.
	addr := cfg.Addr()
	if setFlags["addr"] {
		addr = addrVal
	}
	dbPath := dbVal
	if !setFlags["db"] && cfg.Storage.DBPath != "" {
		dbPath = cfg.Storage.DBPath
	}

	config.SetAPIKeys(cfg.Security.APIKeys.Backend)

	srcs := []string{"flags"}
	if envUsed {
		srcs = append(srcs, "env")
	}
	if _, err := config.Load(cfgPath); err == nil {
		srcs = append(srcs, "config")
	}

	verStr := version
	if commit != "none" {
		verStr += " (" + commit + ")"
	}
	if buildDate != "unknown" {
		verStr += " @ " + buildDate
	}

	a, err := app.New(app.Options{
		Config:  cfg,
		Addr:    addr,
		DBPath:  dbPath,
		Source:  strings.Join(srcs, ", "),
		Version: verStr,
	})
	if err != nil {
		shutdown.Abort("startup failed", err, dbPath, 0)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("server failed", err, dbPath, 0)
	}
}
