// Command envgen resolves the environment settings of a deployment target,
// validates them and writes the environment file the front end is built
// with.
//
//	envgen -env production -config deploy/environment.production.yaml -out src/environments
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/amaumene/coffeeshop/pkg/config"
	"github.com/amaumene/coffeeshop/pkg/environment"
)

var errAuditFailed = errors.New("audit findings in strict mode")

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.WithError(err).Error("envgen failed")
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("envgen", flag.ContinueOnError)
	var (
		envName    = fs.String("env", "", "Deployment target: development or production (default $APP_ENV, then the build variant)")
		configFile = fs.String("config", "", "Settings file (.yaml, .yml or .json); defaults to environment.<env>.yaml in the working directory")
		dotenv     = fs.String("dotenv", ".env", "Comma-separated .env files; missing files are skipped")
		formatName = fs.String("format", "ts", "Output format: ts, json or yaml")
		outDir     = fs.String("out", "", "Directory to write the environment file to (stdout when empty)")
		checkOnly  = fs.Bool("check", false, "Validate only, do not write anything")
		strict     = fs.Bool("strict", false, "Treat audit findings as errors")
		verbose    = fs.Bool("v", false, "Verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	env, err := resolveEnvironment(*envName)
	if err != nil {
		return err
	}
	format, err := environment.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	if *configFile == "" {
		*configFile = config.DefaultFile(".", env)
	}
	cfg, err := config.Load(config.Options{
		Environment: env,
		File:        *configFile,
		DotEnvFiles: config.SplitList(*dotenv),
	})
	if err != nil {
		return err
	}

	findings := cfg.Audit()
	for _, f := range findings {
		log.WithFields(log.Fields{"field": f.Field, "environment": env.String()}).Warn(f.Message)
	}
	if *strict && len(findings) > 0 {
		return fmt.Errorf("%w: %d finding(s)", errAuditFailed, len(findings))
	}

	if *checkOnly {
		log.WithField("environment", env.String()).Info("environment settings are valid")
		return nil
	}

	if *outDir == "" {
		return environment.Render(stdout, cfg, format)
	}
	return writeFile(filepath.Join(*outDir, format.FileName(env)), cfg, format)
}

func resolveEnvironment(name string) (environment.Environment, error) {
	if name != "" {
		return environment.ParseEnvironment(name)
	}
	return config.EnvironmentFromEnv(nil, environment.BuildEnvironment())
}

func writeFile(path string, cfg environment.Config, format environment.Format) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := environment.Render(f, cfg, format); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":         path,
		"environment":  cfg.Environment().String(),
		"auth0_client": cfg.Auth0().MaskedClientID(),
	}).Info("environment file written")
	return nil
}

