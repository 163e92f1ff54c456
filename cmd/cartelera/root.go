package main

import (
	"github.com/spf13/cobra"
)

var defaultEnvFiles = []string{".env", ".env.example"}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "cartelera",
		Short:         "cartelera republishes the Van Dyck cinema listings as JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, envFiles)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", defaultEnvFiles,
		"Env files holding the server configuration; the first readable, non-empty one wins.")

	root.AddCommand(newServeCmd(&envFiles))
	root.AddCommand(newScrapeCmd())
	return root
}
