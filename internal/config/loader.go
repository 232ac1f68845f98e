package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if path is non-empty or HTRBENCH_CONFIG is set
//  3. env (prefix HTRBENCH_, e.g. HTRBENCH_WORKERS, HTRBENCH_OPENROUTER.API_KEY)
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("HTRBENCH_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Env keys map HTRBENCH_RESULTS_DIR -> results_dir. Underscores are
	// preserved to match the koanf tags; a dot separates nested sections.
	envProvider := env.Provider("HTRBENCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "htrbench_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
