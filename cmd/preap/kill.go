package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"preap/internal/app"
	"preap/internal/proc"
)

var (
	killForce  bool
	killFamily bool
	killAll    bool
)

func init() {
	rootCmd.AddCommand(cmdKill)
	cmdKill.Flags().BoolVar(&killForce, "force", false, "Send the unconditional-stop signal instead of the graceful one")
	cmdKill.Flags().BoolVar(&killFamily, "family", false, "Also kill every descendant of each matched process")
	cmdKill.Flags().BoolVar(&killAll, "all", false, "Kill every process the query matches")
}

var cmdKill = &cobra.Command{
	Use:   "kill <query>",
	Short: "Terminate the processes a query matches",
	Long:  "Selects processes with the same query grammar the interactive view uses and signals them. A query matching more than one process is refused unless --all is passed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller(cmd)
		if err != nil {
			return err
		}

		kind := proc.Terminate
		if killForce {
			kind = proc.ForceKill
		}
		res, err := ctrl.KillMatching(cmd.Context(), app.KillParams{
			Query:    args[0],
			Kind:     kind,
			Family:   killFamily,
			AllowAll: killAll,
		})
		if res.Message != "" {
			fmt.Fprintln(os.Stdout, res.Message)
		}
		for _, event := range res.Events {
			name := event.Proc.Name
			if name == "" {
				name = "-"
			}
			switch event.Outcome.Status {
			case proc.Killed:
				fmt.Fprintf(os.Stdout, "Killed pid=%d name=%s (%s)\n", event.Proc.PID, name, event.Outcome.Requested)
			case proc.AlreadyGone:
				fmt.Fprintf(os.Stdout, "Pid=%d name=%s was already gone\n", event.Proc.PID, name)
			default:
				fmt.Fprintf(os.Stdout, "Failed to kill pid=%d name=%s: %s", event.Proc.PID, name, event.Outcome.Status)
				if event.Outcome.Err != nil {
					fmt.Fprintf(os.Stdout, " (%v)", event.Outcome.Err)
				}
				fmt.Fprintln(os.Stdout)
			}
		}
		return err
	},
}
