package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/protodesk/internal/flagx"
	"github.com/joho/godotenv"
)

// loadDotenv exports variables from the dotenv file given with -e/-env, or
// from ./.env when it exists. Variables already set in the environment are
// left alone.
func loadDotenv() error {
	if path := flagx.EnvFile(os.Args[1:]); path != "" {
		return godotenv.Load(path)
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

// parseEnv overlays cfg with PD_* variables. Unset variables keep the
// current value.
func parseEnv(cfg *Config) {
	if err := loadDotenv(); err != nil {
		panic(err)
	}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
