package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrops-br/chaverito-api/internal/infrastructure/config"
)

// app carries state shared by the subcommands once flags are parsed
type app struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand builds the chaverito command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "chaverito",
		Short: "Chaverito keychain store",
		Long: `Chaverito serves the keychain store catalog and shopping carts.

Available subcommands:
  serve - Run the HTTP API
  cart  - Inspect and edit a local cart`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "chaverito.yaml", "path to the YAML config file")

	root.AddCommand(newServeCommand(a))
	root.AddCommand(newCartCommand(a))

	return root
}

// Execute runs the command tree with args
func Execute(args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}
