package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadFromEnv.
const (
	EnvURI          = "VIRSHKIT_URI"
	EnvLibvirtURI   = "LIBVIRT_DEFAULT_URI"
	EnvExecutable   = "VIRSHKIT_EXECUTABLE"
	EnvDebug        = "VIRSHKIT_DEBUG"
	EnvIgnoreErrors = "VIRSHKIT_IGNORE_ERRORS"
)

// LoadFromEnv overlays values from dotenv files and the process environment
// onto cfg. Process variables win over dotenv entries; missing dotenv files
// are skipped.
func LoadFromEnv(cfg *Config, dotenvFiles ...string) error {
	env := map[string]string{}

	for _, path := range dotenvFiles {
		vals, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for k, v := range vals {
			env[k] = v
		}
	}

	for _, key := range []string{EnvURI, EnvLibvirtURI, EnvExecutable, EnvDebug, EnvIgnoreErrors} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}

	applyEnv(cfg, env)
	return nil
}

func applyEnv(cfg *Config, env map[string]string) {
	if v, ok := env[EnvURI]; ok {
		cfg.URI = v
	} else if v, ok := env[EnvLibvirtURI]; ok {
		cfg.URI = v
	}
	if v, ok := env[EnvExecutable]; ok && v != "" {
		cfg.ExecutablePath = v
	}
	if v, ok := env[EnvDebug]; ok {
		cfg.Debug = Truthy(v)
	}
	if v, ok := env[EnvIgnoreErrors]; ok {
		cfg.IgnoreErrors = Truthy(v)
	}
}
