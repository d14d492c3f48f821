package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pygen-dev/pygen/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:   "pygen",
		Short: "Generate a type-safe Python client from an OpenAPI specification",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var outDir string
	var verbose bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "generate [spec]",
		Short: "Generate a Python client from an OpenAPI specification",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var specSource string
			if len(args) > 0 {
				specSource = args[0]
			}
			return cli.RunGenerate(cli.RunGenerateParams{
				ConfigPath: configPath,
				Spec:       specSource,
				OutDir:     outDir,
				Verbose:    verbose,
				Yes:        yes,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to pygen.yaml config")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Directory where the generated client will be saved (default ./sdk)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip security confirmation prompt")

	return cmd
}

func newPreviewCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "preview <spec>",
		Short: "Launch a local server with Swagger UI and Redoc",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunPreview(args[0], port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8000, "Port to run the server on")

	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec>",
		Short: "Validate an OpenAPI specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(args[0])
		},
	}
}
