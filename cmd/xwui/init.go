package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xwui-dev/xwui/internal/config"
	"github.com/xwui-dev/xwui/internal/errors"
)

func initCmd(configDir *string) *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(*configDir) && !force {
				return errors.New("X400").
					WithDetail("A config file already exists in " + *configDir).
					WithSuggestion("Pass --force to overwrite it")
			}
			var name string
			switch format {
			case "yaml":
				name = "xwui.yaml"
			case "json":
				name = "xwui.json"
			default:
				return errors.New("X400").WithDetail("Unknown format " + format).WithSuggestion("Use yaml or json")
			}
			path := filepath.Join(*configDir, name)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "File format: yaml or json")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
