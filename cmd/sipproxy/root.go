package main

import (
	"github.com/spf13/cobra"

	"github.com/sipio/sipproxy/config"
	"github.com/sipio/sipproxy/directory"
)

const (
	defConfigPath    = "config.yml"
	defResourcesPath = "resources.yml"
)

type rootFlags struct {
	configPath    string
	resourcesPath string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:          "sipproxy",
		Short:        "SIP proxy request routing core",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", defConfigPath,
		"Proxy configuration file")
	cmd.PersistentFlags().StringVarP(&flags.resourcesPath, "resources", "r", defResourcesPath,
		"Domains, agents, peers, gateways and DIDs file")

	cmd.AddCommand(
		newCheckCommand(&flags),
		newACLCommand(&flags),
		newVersionCommand(),
	)
	return cmd
}

func (f *rootFlags) load() (*config.Config, *directory.Memory, error) {
	cfg, err := config.Load(f.configPath, nil)
	if err != nil {
		return nil, nil, err
	}
	dir, err := directory.LoadFile(f.resourcesPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, dir, nil
}
