package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"submerge/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "The local semantic backend works offline; set semantic.backend = \"openai\" and OPENAI_API_KEY to use remote embeddings.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	var checkBackend bool

	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Semantic backend: %s (%s)\n", cfg.Semantic.Backend, cfg.Semantic.Model)
			fmt.Fprintf(out, "Run store: %s (enabled: %s)\n", cfg.StorePath(), yesNo(cfg.Store.Enabled))
			if checkBackend {
				embedder, err := newEmbedder(cfg)
				if err != nil {
					return err
				}
				if checker, ok := embedder.(healthChecker); ok {
					if err := checker.HealthCheck(cmd.Context()); err != nil {
						return fmt.Errorf("check semantic backend: %w", err)
					}
					fmt.Fprintf(out, "Semantic backend reachable: %s\n", embedder.Name())
				} else {
					fmt.Fprintf(out, "Semantic backend %s runs locally; nothing to check\n", embedder.Name())
				}
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkBackend, "check-backend", false, "Send a test request to the semantic backend")
	return cmd
}
