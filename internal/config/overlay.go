package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "EASYAPPLY_"

// OverlayEnv loads envFile (missing is fine) and applies EASYAPPLY_*
// variables on top of cfg. Secrets only ever come from here.
func OverlayEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if v := env("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(envPrefix + "PORT must be a number")
		}
		cfg.App.Port = p
	}
	if v := env("DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := env("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
		cfg.Cache.Backend = "redis"
	}
	if v := env("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := env("IMAP_PASSWORD"); v != "" {
		cfg.Email.AppPassword = v
	}
	if v := env("PROFILE"); v != "" {
		cfg.Documents.ProfilePath = v
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}
