package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wisdomtree/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

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
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to point music_dir at your collection and set an ntfy topic if you want notifications.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data_dir        %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "log_dir         %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "music_dir       %s\n", cfg.Paths.MusicDir)
			fmt.Fprintf(out, "quotes_file     %s\n", quotesFileDetail(cfg.Paths.QuotesFile))
			fmt.Fprintf(out, "presets         %s\n", presetSummary(cfg))
			fmt.Fprintf(out, "music_volume    %d\n", cfg.Audio.MusicVolume)
			fmt.Fprintf(out, "audio_enabled   %s\n", yesNo(cfg.Audio.Enabled))
			fmt.Fprintf(out, "stations        %d\n", len(cfg.Radio.Stations))
			fmt.Fprintf(out, "rotation        %ds\n", cfg.Quotes.RotationSeconds)
			fmt.Fprintf(out, "ntfy_topic      %s\n", topicDetail(cfg.Notifications.NtfyTopic))
			fmt.Fprintf(out, "log_level       %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func quotesFileDetail(path string) string {
	if strings.TrimSpace(path) == "" {
		return "(bundled)"
	}
	return path
}

func topicDetail(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return "(not set)"
	}
	return topic
}

func presetSummary(cfg *config.Config) string {
	parts := make([]string, 0, len(cfg.Timer.Presets))
	for _, preset := range cfg.Timer.Presets {
		parts = append(parts, fmt.Sprintf("%d+%d", preset.WorkMinutes, preset.BreakMinutes))
	}
	return strings.Join(parts, ", ")
}
