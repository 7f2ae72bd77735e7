package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/amaumene/coffeeshop/pkg/environment"
	apperrors "github.com/amaumene/coffeeshop/pkg/errors"
)

// EnvKeyEnvironment selects the deployment target when no flag is given.
const EnvKeyEnvironment = "APP_ENV"

// Options controls where Load looks for overrides.
type Options struct {
	// Environment selects the predefined variant to start from.
	Environment environment.Environment
	// File is an optional settings file (.yaml, .yml or .json) in the
	// persisted front-end shape.
	File string
	// DotEnvFiles are read in order; missing files are skipped.
	DotEnvFiles []string
	// Lookup reads the process environment. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// Overrides are the settings that may be supplied from the environment
// instead of being committed with the source.
type Overrides struct {
	APIServerURL     string `env:"API_SERVER_URL"`
	Auth0URL         string `env:"AUTH0_URL"`
	Auth0Audience    string `env:"AUTH0_AUDIENCE"`
	Auth0ClientID    string `env:"AUTH0_CLIENT_ID"`
	Auth0CallbackURL string `env:"AUTH0_CALLBACK_URL"`
}

var overrideKeys = []string{
	"API_SERVER_URL",
	"AUTH0_URL",
	"AUTH0_AUDIENCE",
	"AUTH0_CLIENT_ID",
	"AUTH0_CALLBACK_URL",
}

// Load builds the environment settings for opts.Environment. Values are
// layered in this order, later ones winning: the predefined variant, the
// settings file, the .env files, the process environment. Only non-empty
// values override. The result is validated before it is returned.
func Load(opts Options) (environment.Config, error) {
	doc := environment.ForEnvironment(opts.Environment).Document()

	if opts.File != "" {
		if err := loadFromFile(opts.File, &doc); err != nil {
			return environment.Config{}, fmt.Errorf("settings file %s: %w", opts.File, err)
		}
	}

	vars, err := environmentMap(opts)
	if err != nil {
		return environment.Config{}, err
	}
	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: vars}); err != nil {
		return environment.Config{}, fmt.Errorf("parse environment variables: %w", err)
	}
	o.apply(&doc)

	cfg := doc.Config()
	if err := cfg.Validate(); err != nil {
		return environment.Config{}, fmt.Errorf("invalid %s settings: %w", opts.Environment, err)
	}

	log.WithFields(log.Fields{
		"environment":    cfg.Environment().String(),
		"api_server_url": cfg.APIServerURL(),
		"auth0_domain":   cfg.Auth0().Domain(),
		"auth0_client":   cfg.Auth0().MaskedClientID(),
	}).Debug("environment settings loaded")

	return cfg, nil
}

// EnvironmentFromEnv resolves APP_ENV, falling back when it is unset.
func EnvironmentFromEnv(lookup func(string) (string, bool), fallback environment.Environment) (environment.Environment, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(EnvKeyEnvironment)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return environment.ParseEnvironment(value)
}

// environmentMap merges the .env files with the process environment, the
// process environment taking precedence.
func environmentMap(opts Options) (map[string]string, error) {
	vars := make(map[string]string)
	for _, path := range opts.DotEnvFiles {
		if path == "" {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.WithField("path", path).Debug("dotenv file not found, skipping")
				continue
			}
			return nil, fmt.Errorf("read dotenv file %s: %w", path, err)
		}
		for k, v := range values {
			vars[k] = v
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range overrideKeys {
		if value, ok := lookup(key); ok && value != "" {
			vars[key] = value
		}
	}
	return vars, nil
}

func (o Overrides) apply(doc *environment.Document) {
	if o.APIServerURL != "" {
		doc.APIServerURL = o.APIServerURL
	}
	if o.Auth0URL != "" {
		doc.Auth0.URL = o.Auth0URL
	}
	if o.Auth0Audience != "" {
		doc.Auth0.Audience = o.Auth0Audience
	}
	if o.Auth0ClientID != "" {
		doc.Auth0.ClientID = o.Auth0ClientID
	}
	if o.Auth0CallbackURL != "" {
		doc.Auth0.CallbackURL = o.Auth0CallbackURL
	}
}

// fileModel mirrors environment.Document with optional fields so that an
// absent key can be told apart from an empty one.
type fileModel struct {
	Production   *bool      `yaml:"production" json:"production"`
	APIServerURL string     `yaml:"apiServerUrl" json:"apiServerUrl"`
	Auth0        *fileAuth0 `yaml:"auth0" json:"auth0"`
}

type fileAuth0 struct {
	URL         string `yaml:"url" json:"url"`
	Audience    string `yaml:"audience" json:"audience"`
	ClientID    string `yaml:"clientId" json:"clientId"`
	CallbackURL string `yaml:"callbackURL" json:"callbackURL"`
}

func loadFromFile(path string, doc *environment.Document) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrNotFound, err)
		}
		return err
	}

	var fm fileModel
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&fm); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fm); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	default:
		return fmt.Errorf("%w: unsupported settings file format %q", apperrors.ErrInvalidInput, filepath.Ext(path))
	}
	return fm.apply(doc)
}

func (fm *fileModel) apply(doc *environment.Document) error {
	// Variants are never patched into one another.
	if fm.Production != nil && *fm.Production != doc.Production {
		return apperrors.NewFieldError("production",
			fmt.Errorf("%w: file is for a different environment", apperrors.ErrInvalidInput))
	}
	if fm.APIServerURL != "" {
		doc.APIServerURL = fm.APIServerURL
	}
	if fm.Auth0 != nil {
		if fm.Auth0.URL != "" {
			doc.Auth0.URL = fm.Auth0.URL
		}
		if fm.Auth0.Audience != "" {
			doc.Auth0.Audience = fm.Auth0.Audience
		}
		if fm.Auth0.ClientID != "" {
			doc.Auth0.ClientID = fm.Auth0.ClientID
		}
		if fm.Auth0.CallbackURL != "" {
			doc.Auth0.CallbackURL = fm.Auth0.CallbackURL
		}
	}
	return nil
}

// DefaultFile looks for environment.<env>.yaml, .yml or .json in dir and
// returns the first one found, or "" if there is none.
func DefaultFile(dir string, target environment.Environment) string {
	base := filepath.Join(dir, "environment."+target.String())
	return FirstExisting(base+".yaml", base+".yml", base+".json")
}

// FirstExisting returns the first path that exists, or "" if none does.
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// SplitList splits a comma-separated flag value, trimming blanks and
// dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
