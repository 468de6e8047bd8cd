package commands

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plainbook/plainbook/lib/journal"
	"github.com/plainbook/plainbook/lib/model/transaction"
)

// CreatePrintCommand creates the print command.
func CreatePrintCommand() *cobra.Command {
	var r printRunner
	c := &cobra.Command{
		Use:   "print [journal]",
		Short: "parse a journal and print its day books",
		Long:  `Parse the given journal and print the resolved bookings per calendar date.`,
		Args:  cobra.ExactArgs(1),
		RunE:  r.run,
	}
	return c
}

type printRunner struct{}

func (r *printRunner) run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ledger, err := journal.ParseFile(args[0], nil)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	return r.print(out, ledger)
}

func (r *printRunner) print(w io.Writer, ledger *journal.Ledger) error {
	for _, day := range ledger.Days() {
		if _, err := fmt.Fprintf(w, "%s\n", day.Date.Format("2006-01-02")); err != nil {
			return err
		}
		for _, custom := range day.Customs {
			if _, err := fmt.Fprintf(w, "  custom %q\n", custom); err != nil {
				return err
			}
		}
		for _, pad := range day.Pads {
			if err := r.printPad(w, ledger, pad); err != nil {
				return err
			}
		}
		for _, assertion := range day.Assertions {
			if err := r.printAssertion(w, ledger, assertion); err != nil {
				return err
			}
		}
		for _, trx := range day.Transactions {
			if err := r.printTransaction(w, ledger, trx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *printRunner) printPad(w io.Writer, ledger *journal.Ledger, pad journal.PadTransaction) error {
	target, err := ledger.Accounts.Unresolve(pad.Target)
	if err != nil {
		return err
	}
	source, err := ledger.Accounts.Unresolve(pad.Source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  pad %s %s\n", target, source)
	return err
}

func (r *printRunner) printAssertion(w io.Writer, ledger *journal.Ledger, assertion journal.BalanceAssertion) error {
	acc, err := ledger.Accounts.Unresolve(assertion.Account)
	if err != nil {
		return err
	}
	unit, _ := ledger.Units.Name(assertion.Amount.Commodity)
	_, err = fmt.Fprintf(w, "  balance %s %s %s\n", acc, assertion.Amount.Nominal, unit)
	return err
}

func (r *printRunner) printTransaction(w io.Writer, ledger *journal.Ledger, trx *transaction.Transaction) error {
	header := trx.Title
	if trx.Payee != "" {
		header = fmt.Sprintf("%s | %s", trx.Payee, trx.Title)
	}
	if _, err := fmt.Fprintf(w, "  %s %s\n", trx.State, header); err != nil {
		return err
	}
	for _, e := range trx.Exchanges {
		acc, err := ledger.Accounts.Unresolve(e.Account)
		if err != nil {
			return err
		}
		unit, _ := ledger.Units.Name(e.Amount.Commodity)
		marker := ""
		if e.Elided {
			marker = " (inferred)"
		}
		if _, err := fmt.Fprintf(w, "    %s %s %s%s\n", acc, e.Amount.Nominal, unit, marker); err != nil {
			return err
		}
	}
	return nil
}
