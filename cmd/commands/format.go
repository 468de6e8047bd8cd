package commands

import (
	"bufio"
	"bytes"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/plainbook/plainbook/lib/syntax/parser"
	"github.com/plainbook/plainbook/lib/syntax/printer"
)

// CreateFormatCommand creates the format command.
func CreateFormatCommand() *cobra.Command {
	var r formatRunner
	c := &cobra.Command{
		Use:   "format [journal]...",
		Short: "format journals in canonical form",
		Long:  `Reprint the given journals in canonical form, aligning transaction legs.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.run,
	}
	r.setupFlags(c.Flags())
	return c
}

type formatRunner struct {
	write bool
}

func (r *formatRunner) setupFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&r.write, "write", "w", false, "rewrite files in place instead of printing to stdout")
}

func (r *formatRunner) run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	for _, path := range args {
		if err := r.formatFile(cmd, path); err != nil {
			return err
		}
	}
	return nil
}

func (r *formatRunner) formatFile(cmd *cobra.Command, path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := parser.Parse(string(text), path)
	if err != nil {
		return err
	}
	var formatted bytes.Buffer
	if err := printer.New().Format(file, &formatted); err != nil {
		return err
	}
	if r.write {
		return atomic.WriteFile(path, &formatted)
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	_, err = formatted.WriteTo(out)
	return err
}
