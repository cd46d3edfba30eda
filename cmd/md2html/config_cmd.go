package main

import (
	"fmt"

	"github.com/alnah/go-md2html/internal/yamlutil"
)

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.config, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
