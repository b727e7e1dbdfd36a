package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/codeexplain/internal/config"
)

// newConfigCmd groups configuration helpers.
func newConfigCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage codeexplain configuration",
	}
	cmd.AddCommand(newConfigInitCmd(stdout, stderr))
	return cmd
}

// newConfigInitCmd implements `codeexplain config init`, which writes the
// default configuration to a YAML file. Existing files are left alone.
func newConfigInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Long: `Write the default configuration as YAML. path defaults to ./` + config.DefaultFile + `.
An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigInit(args, dryRun, stdout, stderr)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the configuration instead of writing it")
	return cmd
}

func runConfigInit(args []string, dryRun bool, stdout, stderr io.Writer) error {
	cfg := config.Default()

	if dryRun {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, _ = stdout.Write(data)
		return nil
	}

	path := config.DefaultFile
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.WriteYAML(cfg, path); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stderr, "wrote default configuration to %s\n", path)
	return nil
}
