package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pemkomedan/rag-layanan/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ragd",
		Short: "Layanan retrieval daemon",
		Long:  "Daemon serving the hybrid retrieval API for the municipal service knowledge, proposal, and document banks",
	}

	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
