// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves settings from defaults, an optional YAML file,
// a .env file, and ARXIV_AGENT_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-agent/pkg/types"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ARXIV_AGENT_GENERATION_MODEL.
	EnvPrefix = "ARXIV_AGENT"

	// FileName is the config file base name searched for without --config.
	FileName = "arxiv-agent"
)

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.papers_dir", "papers")

	v.SetDefault("search.base_url", "https://export.arxiv.org/api/query")
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.user_agent", "arxiv-agent/0.1")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.request_interval", 3*time.Second)

	v.SetDefault("generation.url", "http://localhost:11434/api/generate")
	v.SetDefault("generation.model", "qwen3:8b")
	v.SetDefault("generation.timeout", 60*time.Second)
	v.SetDefault("generation.system_prompt", "You are a helpful research assistant.")

	// Kept outside store.papers_dir so opening it never creates the store root.
	v.SetDefault("catalog.path", filepath.Join(".arxiv-agent", "catalog.db"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// New returns a viper instance with defaults, environment binding, and the
// config file located. When file is empty, ./arxiv-agent.yaml and
// ~/.config/arxiv-agent/config.yaml are tried; finding neither is not an
// error. An explicit file that cannot be read is.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigType("yaml")
	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", candidate, err)
		}
		break
	}
	return v, nil
}

func searchPaths() []string {
	paths := []string{FileName + ".yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", FileName, "config.yaml"))
	}
	return paths
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Load is New followed by Decode.
func Load(file string) (types.Config, *viper.Viper, error) {
	v, err := New(file)
	if err != nil {
		return types.Config{}, nil, err
	}
	cfg, err := Decode(v)
	if err != nil {
		return types.Config{}, nil, err
	}
	return cfg, v, nil
}

// LoadDotEnv copies variables from the dotenv file at path into the process
// environment without overriding ones already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
