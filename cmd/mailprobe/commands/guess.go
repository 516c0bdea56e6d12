package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/probelabs/mailprobe"
)

var (
	guessFirst  string
	guessLast   string
	guessVerify bool

	guessCmd = &cobra.Command{
		Use:   "guess domain",
		Short: "Guess likely addresses for a person at a domain",
		Long: `Guess prints the address patterns organizations commonly assign,
built from a person's name. With --verify each candidate is probed and
the full verification results are printed instead; on a catch-all
domain every candidate will come back risky.`,
		Args: cobra.ExactArgs(1),
		RunE: runGuess,
	}
)

func init() {
	guessCmd.Flags().StringVar(&guessFirst, "first", "", "the person's first name")
	guessCmd.Flags().StringVar(&guessLast, "last", "", "the person's last name")
	guessCmd.Flags().BoolVar(&guessVerify, "verify", false, "probe the candidates and print verification results")

	rootCmd.AddCommand(guessCmd)
}

func runGuess(cmd *cobra.Command, args []string) error {
	person := mailprobe.Person{First: guessFirst, Last: guessLast}
	candidates := mailprobe.Guess(args[0], person)
	if len(candidates) == 0 {
		return errors.New("need --first or --last to build candidates")
	}

	w := cmd.OutOrStdout()
	if !guessVerify {
		if jsonOut {
			return printJSON(w, candidates)
		}
		for _, c := range candidates {
			fmt.Fprintln(w, c)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := buildVerifier().VerifyBatch(ctx, candidates)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(w, results)
	}
	printResults(w, results)
	return nil
}
