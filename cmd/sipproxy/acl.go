package main

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/sipio/sipproxy/acl"
)

func newACLCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "acl <domain> <ip>",
		Short: "Evaluate whether an address may reach a domain",
		Args:  cobra.ExactArgs(2),
		Example: `  sipproxy acl sip.local 192.168.1.7
  sipproxy acl sip.local 2001:db8::1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, err := netip.ParseAddr(args[1])
			if err != nil {
				return err
			}
			cfg, dir, err := flags.load()
			if err != nil {
				return err
			}
			general, err := cfg.ACL()
			if err != nil {
				return err
			}
			eval, err := acl.NewEvaluator(general, nil)
			if err != nil {
				return err
			}

			res := dir.Domain(context.Background(), args[0])
			if res.IsError() {
				return res.Err
			}
			dom, ok := res.Get()
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "domain %s not found, evaluating general list only\n", args[0])
			}

			verdict := "denied"
			if eval.IsIPAllowed(dom, ip) {
				verdict = "allowed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ip, verdict, args[0])
			return nil
		},
	}
}
