// Command sipproxy inspects the configuration and resources of the SIP proxy.
package main

import (
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
