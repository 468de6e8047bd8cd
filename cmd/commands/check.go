package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/plainbook/plainbook/lib/journal"
	"github.com/plainbook/plainbook/lib/journal/check"
	"github.com/plainbook/plainbook/lib/model/transaction"
)

// CreateCheckCommand creates the check command.
func CreateCheckCommand() *cobra.Command {
	var r checkRunner
	c := &cobra.Command{
		Use:   "check [journal]...",
		Short: "parse journals and check transaction balances",
		Long: `Parse the given journals and verify that every transaction balances.
Each journal is parsed into its own ledger, so multiple journals are
checked concurrently.`,
		RunE: r.run,
	}
	r.setupFlags(c.Flags())
	return c
}

type checkRunner struct {
	withoutSum bool
	configPath string
}

func (r *checkRunner) setupFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&r.withoutSum, "without-sum", false, "check exchange structure only, skip the arithmetic fold")
	fs.StringVarP(&r.configPath, "config", "c", "", "YAML file listing journals to check")
}

// checkConfig is the YAML check configuration.
type checkConfig struct {
	Journals []string `yaml:"journals"`
}

func (r *checkRunner) run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	paths := args
	if r.configPath != "" {
		text, err := os.ReadFile(r.configPath)
		if err != nil {
			return err
		}
		var config checkConfig
		if err := yaml.Unmarshal(text, &config); err != nil {
			return fmt.Errorf("reading config %s: %w", r.configPath, err)
		}
		paths = append(paths, config.Journals...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no journals given")
	}
	mode := transaction.WithSum
	if r.withoutSum {
		mode = transaction.WithoutSum
	}
	results := make([]error, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			ledger, err := journal.ParseFile(path, nil)
			if err != nil {
				results[i] = err
				return nil
			}
			results[i] = check.Checker{Mode: mode}.Ledger(ledger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var failed bool
	for i, path := range paths {
		if results[i] != nil {
			failed = true
			color.Red("%s: %v", path, results[i])
		} else {
			color.Green("%s: ok", path)
		}
	}
	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}
