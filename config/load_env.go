package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv loads environment variables from config/envs/.env.<env> when the
// file exists. Missing files are fine; the OS environment wins either way.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment")
	}
}
