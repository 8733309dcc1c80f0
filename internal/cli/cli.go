// Package cli implements dashctl, the offline companion of the BFA: it
// runs the reporting engine over a record export on disk.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CLI represents the command-line interface.
type CLI struct {
	out     io.Writer
	logger  *zap.Logger
	version string
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI.
type Options struct {
	Output  io.Writer
	Logger  *zap.Logger
	Version string
}

// New creates a CLI instance.
func New(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	c := &CLI{out: opts.Output, logger: opts.Logger, version: opts.Version}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the command selected by args.
func (c *CLI) Execute(args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.Execute()
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Small-business dashboard reporting tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(c.out)

	cmd.AddCommand(newReportCmd(c.logger))
	cmd.AddCommand(newVersionCmd(c.version))

	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dashctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("dashctl %s\n", version)
		},
	}
}
