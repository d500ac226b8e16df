package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdFind)
}

var cmdFind = &cobra.Command{
	Use:   "find [query]",
	Short: "Search processes once and print the matches",
	Long:  "Enumerates processes, applies the query grammar (see `preap --help`) and prints the result table to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller(cmd)
		if err != nil {
			return err
		}
		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		spin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = " enumerating processes"
		spin.Start()
		err = ctrl.Refresh(cmd.Context())
		spin.Stop()
		if err != nil {
			return err
		}

		matches := ctrl.Search(query)
		if len(matches) == 0 {
			fmt.Fprintln(os.Stdout, "No processes match the query")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PID\tNAME\tUSER\tPORTS\tCOMMAND")
		for _, m := range matches {
			p := m.Process
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.PID, p.Name, p.Owner, p.PortList(), p.CommandLine())
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d processes\n", len(matches))
		return nil
	},
}
