package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the task file",
	Long: `Validate the task file.

Reports records that break the task file schema, duplicate IDs, and a
retired-ID mark below the highest stored ID. Exits 1 when problems are
found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.store == nil {
		return errors.New("check requires the json backend")
	}

	problems, err := s.store.Verify()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(problems) == 0 {
		fmt.Fprintln(out, "ok")
		return nil
	}
	for _, problem := range problems {
		fmt.Fprintln(out, problem)
	}
	return exitError{code: 1}
}
