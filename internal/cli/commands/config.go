package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/cli/config"
)

// SkipSession marks commands that run without a session, API client or config file
const SkipSession = "skip-session"

// NewConfigCmd creates the config command group
func NewConfigCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the CLI configuration",
		Annotations: map[string]string{SkipSession: "true"},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{SkipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			return runConfigInit(d, path, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	pathCmd := &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{SkipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(d.out(), path)
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}

func runConfigInit(d *Deps, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(d.out(), "✓ Wrote %s\n", path)
	fmt.Fprintln(d.out(), "\nNext steps:")
	fmt.Fprintln(d.out(), "  1. Edit api_url to point at your QuitQ server")
	fmt.Fprintln(d.out(), "  2. Run: quitq login")
	return nil
}
