package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/arthur-debert/rah/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every configuration environment variable
const EnvPrefix = "RAH_"

// envIgnored are RAH_ variables handled elsewhere
var envIgnored = map[string]bool{
	"LOG_LEVEL":  true,
	"CONFIG_DIR": true,
	"CACHE_DIR":  true,
	"STATE_DIR":  true,
}

// LoadOptions selects the sources Load reads
type LoadOptions struct {
	// File is an explicit configuration file. It must exist.
	File string
	// Overrides are applied last, keyed by dotted path ("aur.url")
	Overrides map[string]interface{}
	// Paths locates the default configuration files. nil means paths.New().
	Paths *paths.Paths
}

// Load builds the effective configuration and validates it
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	p := opts.Paths
	if p == nil {
		p = paths.New()
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default configuration")
	}

	// 2. Config file
	source := opts.File
	if source != "" {
		source = paths.ExpandHome(source)
		if _, err := os.Stat(source); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", source).
				WithDetail("path", source)
		}
	} else {
		source = p.FindConfig()
	}
	if source != "" {
		if err := k.Load(file.Provider(source), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", source).
				WithDetail("path", source)
		}
		logger.Debug().Str("path", source).Msg("Loaded config file")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	cfg.Source = source
	cfg.raw = k.Raw()
	if cfg.CachePath == "" {
		cfg.CachePath = p.CacheDir()
	}
	cfg.CachePath = paths.ExpandHome(cfg.CachePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps RAH_AUR__MAX_CONCURRENCY to aur.max_concurrency. Returning
// "" makes koanf skip the variable.
func envKey(s string) string {
	name := strings.TrimPrefix(s, EnvPrefix)
	if envIgnored[name] {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(name), "__", ".")
}
