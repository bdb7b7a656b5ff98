package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sipio/sipproxy/acl"
	"github.com/sipio/sipproxy/txctx"
)

func newCheckCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and resources",
		Args:  cobra.NoArgs,
		Example: `  sipproxy check
  sipproxy check --config /etc/sipproxy/config.yml --resources /etc/sipproxy/resources.yml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, dir, err := flags.load()
			if err != nil {
				return err
			}
			if err := dir.Validate(); err != nil {
				return err
			}

			logger, err := cfg.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			general, err := cfg.ACL()
			if err != nil {
				return err
			}
			if _, err := acl.NewEvaluator(general, &acl.Options{Log: logger}); err != nil {
				return err
			}
			if _, err := txctx.NewMemoryStore(cfg.ContextStoreOptions(logger)); err != nil {
				return err
			}
			if _, err := cfg.Proxy(); err != nil {
				return err
			}

			cnt := dir.Counts()
			logger.Debug("configuration checked",
				slog.String("config", flags.configPath),
				slog.String("resources", flags.resourcesPath),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d domains, %d agents, %d peers, %d gateways, %d DIDs\n",
				cnt.Domains, cnt.Agents, cnt.Peers, cnt.Gateways, cnt.DIDs)
			return nil
		},
	}
}
