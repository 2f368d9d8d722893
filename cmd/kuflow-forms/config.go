package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	listenAddress FlagType = iota
	servicePort

	formsPath
	policiesPath

	logFormat
)

type AppConfig struct {
	formsConfig    io.ReadCloser
	policiesConfig io.ReadCloser
}

func (cfg *AppConfig) Close() {
	if cfg.formsConfig != nil {
		cfg.formsConfig.Close()
	}
	if cfg.policiesConfig != nil {
		cfg.policiesConfig.Close()
	}
}

func defaultFlags() FlagMap {
	return FlagMap{
		listenAddress: "",
		servicePort:   "8080",

		formsPath:    "/opt/kuflow/config/forms.yaml",
		policiesPath: "",

		logFormat: "json",
	}
}

// parseExternalConfig overrides the defaults with environment variables and then with
// command line flags
func parseExternalConfig(ctx context.Context, flags FlagMap) FlagMap {

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	flags[listenAddress] = env.GetVariableOrDefault(ctx, "LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = env.GetVariableOrDefault(ctx, "SERVICE_PORT", flags[servicePort])
	flags[formsPath] = env.GetVariableOrDefault(ctx, "FORMS_CONFIG_PATH", flags[formsPath])
	flags[policiesPath] = env.GetVariableOrDefault(ctx, "FORMS_POLICIES_PATH", flags[policiesPath])
	flags[logFormat] = env.GetVariableOrDefault(ctx, "LOG_FORMAT", flags[logFormat])

	flag.Func("forms", "path to the form definitions (yaml)", apply(formsPath))
	flag.Func("policies", "path to an optional rego policy for form values", apply(policiesPath))
	flag.Func("port", "port to listen for connections on", apply(servicePort))
	flag.Parse()

	return flags
}

func newAppConfig(flags FlagMap) (*AppConfig, error) {
	var err error
	cfg := &AppConfig{}

	cfg.formsConfig, err = os.Open(flags[formsPath])
	if err != nil {
		return nil, fmt.Errorf("failed to open form definitions: %w", err)
	}

	if flags[policiesPath] != "" {
		cfg.policiesConfig, err = os.Open(flags[policiesPath])
		if err != nil {
			cfg.Close()
			return nil, fmt.Errorf("failed to open form policies: %w", err)
		}
	}

	return cfg, nil
}
