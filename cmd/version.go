package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the topoforge version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("topoforge %s\n", Version)
		},
	}
}
