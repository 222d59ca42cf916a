package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jornabot/jornasa-go/internal/verify"
)

func newVerificarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verificar <url-ou-texto...>",
		Short: "Check a source against the official domain allow-list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := verify.CheckSource(strings.Join(args, " "))
			return printJSON(os.Stdout, result)
		},
	}
}
