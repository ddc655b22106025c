package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"slidecast/internal/client"
	"slidecast/internal/config"
)

type cliOptions struct {
	configPath string
	apiBind    string
	apiToken   string
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "slidecast",
		Short:         "Turn structured content into narrated videos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.apiBind, "api", "", "daemon address (overrides config)")
	root.PersistentFlags().StringVar(&opts.apiToken, "token", "", "API bearer token (overrides config)")

	root.AddCommand(
		newGenerateCommand(opts),
		newJobsCommand(opts),
		newShowCommand(opts),
		newDownloadCommand(opts),
		newDeleteCommand(opts),
		newStatusCommand(opts),
		newDepsCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// loadConfig resolves the effective config, honoring the --config flag.
func (o *cliOptions) loadConfig() (*config.Config, error) {
	cfg, _, _, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds a daemon client, letting flags override the config.
func (o *cliOptions) newClient() (*client.Client, error) {
	bind := o.apiBind
	token := o.apiToken
	if bind == "" || token == "" {
		cfg, err := o.loadConfig()
		if err != nil {
			return nil, err
		}
		if bind == "" {
			bind = cfg.Paths.APIBind
		}
		if token == "" {
			token = cfg.Paths.APIToken
		}
	}
	return client.New(bind, token), nil
}

// stdoutIsTerminal gates table styling and progress redraws.
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
