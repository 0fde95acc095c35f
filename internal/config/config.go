package config

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/notepad/internal/database"
	"github.com/mdouchement/notepad/internal/logger"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "NOTEPAD_"

// A Config holds the process configuration.
type Config struct {
	Address     string
	Credentials database.Credentials
	Log         logger.Options
}

var defaults = map[string]any{
	"port":      "8080",
	"log.level": "info",
}

// Load reads the configuration from the defaults, the given YAML file (optional) and the environment.
// PORT sets the listening port and NOTEPAD_* variables set the other keys (`__` is the level separator).
// Empty variables are ignored.
func Load(filename string) (*Config, error) {
	konf := koanf.New(".")
	if err := konf.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "could not load defaults")
	}

	if filename != "" {
		if err := konf.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "could not load configuration file")
		}
	}

	err := konf.Load(env.ProviderWithValue("PORT", ".", func(k, v string) (string, any) {
		if k != "PORT" || v == "" {
			return "", nil
		}
		return "port", v
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load port")
	}

	err = konf.Load(env.ProviderWithValue(EnvPrefix, ".", func(k, v string) (string, any) {
		if v == "" {
			return "", nil
		}
		k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
		return strings.ReplaceAll(k, "__", "."), v
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load environment")
	}

	return build(konf)
}

func build(konf *koanf.Koanf) (*Config, error) {
	address := konf.String("address")
	if address == "" {
		address = ":" + konf.String("port")
	}

	blob := konf.String("credentials")
	if blob == "" {
		return nil, errors.New("credentials not found")
	}

	cred, err := ParseCredentials(blob)
	if err != nil {
		return nil, err
	}

	return &Config{
		Address:     address,
		Credentials: cred,
		Log: logger.Options{
			Level:      konf.String("log.level"),
			File:       konf.String("log.file"),
			MaxSize:    konf.Int("log.max_size"),
			MaxBackups: konf.Int("log.max_backups"),
			MaxAge:     konf.Int("log.max_age"),
		},
	}, nil
}

// ParseCredentials parses the JSON credential blob used to reach the document store.
//
//	{"backend": "storm", "path": "notepad.db", "codec": "msgpack"}
//	{"backend": "redis", "url": "redis://:password@localhost:6379/0", "collection": "notes"}
func ParseCredentials(blob string) (database.Credentials, error) {
	var cred database.Credentials

	var p fastjson.Parser
	v, err := p.Parse(blob)
	if err != nil {
		return cred, errors.Wrap(err, "could not parse credentials")
	}

	if v.Type() != fastjson.TypeObject {
		return cred, errors.New("could not parse credentials: not an object")
	}

	cred = database.Credentials{
		Backend:    string(v.GetStringBytes("backend")),
		Collection: string(v.GetStringBytes("collection")),
		Path:       string(v.GetStringBytes("path")),
		Codec:      string(v.GetStringBytes("codec")),
		URL:        string(v.GetStringBytes("url")),
	}
	if cred.Backend == "" {
		cred.Backend = database.BackendStorm
	}

	switch cred.Backend {
	case database.BackendStorm:
		if cred.Path == "" {
			return cred, errors.New("credentials: storm backend requires a path")
		}
	case database.BackendRedis:
		if cred.URL == "" {
			return cred, errors.New("credentials: redis backend requires an url")
		}
	default:
		return cred, errors.Errorf("credentials: unsupported backend %s", cred.Backend)
	}

	return cred, nil
}
