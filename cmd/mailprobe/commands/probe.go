package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/probelabs/mailprobe/probe"
)

var (
	probeFrom     string
	probeHostname string
	probePort     string
	probeTimeout  time.Duration

	probeCmd = &cobra.Command{
		Use:   "probe host [address ...]",
		Short: "Probe one exchange host directly, skipping MX resolution",
		Long: `Probe speaks SMTP to the given host. With no addresses it reports
whether the host accepts sessions at all (connect, greeting, MAIL FROM).
With addresses it issues one RCPT per address through a single session
and prints each reply.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runProbe,
	}
)

func init() {
	probeCmd.Flags().StringVar(&probeFrom, "from", "", "sender to declare in MAIL FROM")
	probeCmd.Flags().StringVar(&probeHostname, "hostname", "", "identity to send in EHLO/HELO")
	probeCmd.Flags().StringVar(&probePort, "port", "", "SMTP port on the host")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 0, "per-operation SMTP timeout")

	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	host, addrs := args[0], args[1:]
	opts := probeOptions()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	if len(addrs) == 0 {
		if err := probe.VerifyConnection(ctx, host, opts); err != nil {
			return fmt.Errorf("%s does not accept SMTP sessions: %w", host, err)
		}
		fmt.Fprintf(w, "%s accepts SMTP sessions\n", host)
		return nil
	}

	results := probe.VerifyRecipients(ctx, host, addrs, opts)
	if jsonOut {
		return printJSON(w, results)
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tRESULT\tCODE\tREASON")
	for _, r := range results {
		verdict := "rejected"
		if r.Accepted {
			verdict = "accepted"
		}
		code := "-"
		if r.Code > 0 {
			code = strconv.Itoa(r.Code)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Addr, verdict, code, r.Reason)
	}
	return tw.Flush()
}

func probeOptions() probe.Options {
	opts := probe.Options{
		MailFrom:      cfg.SMTP.MailFrom,
		LocalHostname: cfg.SMTP.LocalHostname,
		Timeout:       time.Duration(cfg.SMTP.Timeout) * time.Second,
		Port:          cfg.SMTP.Port,
		Logger:        log,
	}
	if probeFrom != "" {
		opts.MailFrom = probeFrom
	}
	if probeHostname != "" {
		opts.LocalHostname = probeHostname
	}
	if probePort != "" {
		opts.Port = probePort
	}
	if probeTimeout > 0 {
		opts.Timeout = probeTimeout
	}
	return opts
}
