package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
)

var flagValidate bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the built-in runner configuration as YAML.

Save it as ~/.runner/configs/runner.yaml or ./configs/runner.yaml and
edit the keys you want to change. With --validate the file given by
--config is checked instead.

Examples:
  runner config > ~/.runner/configs/runner.yaml
  runner config --validate --config ./my-runner.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagValidate, "validate", false, "Validate the --config file and exit")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if !flagValidate {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	if flagConfig == "" {
		return fmt.Errorf("--validate needs --config <path>")
	}
	if _, err := config.LoadRunner(flagConfig); err != nil {
		return err
	}
	fmt.Printf("%s: ok\n", flagConfig)
	return nil
}
