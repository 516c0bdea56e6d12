package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/likexian/whois"
	"github.com/spf13/cobra"

	"github.com/probelabs/mailprobe"
	"github.com/probelabs/mailprobe/internal/metrics"
)

var (
	verifyFrom     string
	verifyHostname string
	verifyPort     string
	verifyTimeout  time.Duration
	verifyWorkers  int
	verifyFile     string
	verifyFallback bool
	verifyWhois    bool
	metricsAddr    string

	verifyCmd = &cobra.Command{
		Use:   "verify [address ...]",
		Short: "Verify deliverability of one or more addresses",
		Long: `Verify resolves each address's mail exchangers, probes them over SMTP
and prints one line per address, in input order. Addresses come from
the arguments, from --file, or from stdin when neither is given. Lines
starting with # are skipped.`,
		RunE: runVerify,
	}
)

func init() {
	verifyCmd.Flags().StringVar(&verifyFrom, "from", "", "sender to declare in MAIL FROM")
	verifyCmd.Flags().StringVar(&verifyHostname, "hostname", "", "identity to send in EHLO/HELO")
	verifyCmd.Flags().StringVar(&verifyPort, "port", "", "SMTP port on the exchange hosts")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 0, "per-operation SMTP timeout")
	verifyCmd.Flags().IntVar(&verifyWorkers, "workers", 0, "domain groups probed in parallel")
	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "read addresses from file, one per line (- for stdin)")
	verifyCmd.Flags().BoolVar(&verifyFallback, "fallback-a", false, "treat a domain without MX but with address records as its own exchange")
	verifyCmd.Flags().BoolVar(&verifyWhois, "whois", false, "attach the WHOIS record of each distinct domain")
	verifyCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	queries, err := gatherAddresses(args, verifyFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return errors.New("no addresses to verify")
	}

	startMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := buildVerifier().VerifyBatch(ctx, queries)
	if err != nil {
		return err
	}
	log.Debug("batch finished", "addresses", len(results), "elapsed", time.Since(start))

	w := cmd.OutOrStdout()
	if jsonOut {
		if verifyWhois {
			return printJSON(w, struct {
				Results []mailprobe.Result `json:"results"`
				Whois   []domainWhois      `json:"whois"`
			}{results, whoisRecords(results)})
		}
		return printJSON(w, results)
	}

	printResults(w, results)
	if verifyWhois {
		for _, rec := range whoisRecords(results) {
			fmt.Fprintf(w, "\n--- whois %s ---\n", rec.Domain)
			if rec.Err != "" {
				fmt.Fprintln(w, "lookup failed:", rec.Err)
				continue
			}
			fmt.Fprintln(w, strings.TrimSpace(rec.Record))
		}
	}
	return nil
}

// buildVerifier assembles a Verifier from the config file with any flag
// overrides applied on top. Also used by the guess command.
func buildVerifier() *mailprobe.Verifier {
	smtp := cfg.SMTPOptions()
	if verifyFrom != "" {
		smtp.MailFrom = verifyFrom
	}
	if verifyHostname != "" {
		smtp.LocalHostname = verifyHostname
	}
	if verifyPort != "" {
		smtp.Port = verifyPort
	}
	if verifyTimeout > 0 {
		smtp.Timeout = verifyTimeout
	}

	dns := cfg.DNSOptions()
	if verifyFallback {
		dns.FallbackToA = true
	}

	workers := cfg.Verify.Workers
	if verifyWorkers > 0 {
		workers = verifyWorkers
	}

	return mailprobe.New().
		WithSMTP(smtp).
		WithDNS(dns).
		WithWorkers(workers).
		WithLogger(log)
}

// startMetrics exposes the Prometheus endpoint when asked to, for the
// lifetime of the process.
func startMetrics() {
	addr := metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Listen
	}
	if addr == "" {
		return
	}
	go func() {
		if err := metrics.StartServer(addr); err != nil {
			log.Error("metrics server failed", "addr", addr, "err", err)
		}
	}()
}

// gatherAddresses merges the argument list with --file or stdin input.
func gatherAddresses(args []string, file string, stdin io.Reader) ([]string, error) {
	queries := append([]string(nil), args...)

	var src io.Reader
	switch {
	case file == "-":
		src = stdin
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	case len(args) == 0:
		src = stdin
	}
	if src == nil {
		return queries, nil
	}

	sc := bufio.NewScanner(src)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	return queries, sc.Err()
}

func printResults(w io.Writer, results []mailprobe.Result) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tSTATUS\tREASON\tEXCHANGE\tNOTES")
	for _, r := range results {
		addr := r.Email
		if addr == "" {
			addr = r.Query
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", addr, r.Status, r.Reason, orDash(r.Exchange), notes(r))
	}
	tw.Flush()
}

func notes(r mailprobe.Result) string {
	var tags []string
	if r.CatchAll {
		tags = append(tags, "catch-all")
	}
	if r.Disposable {
		tags = append(tags, "disposable")
	}
	if r.Free {
		tags = append(tags, "free")
	}
	if r.Role {
		tags = append(tags, "role")
	}
	if r.Suggestion != "" {
		tags = append(tags, "did you mean @"+r.Suggestion+"?")
	}
	return strings.Join(tags, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type domainWhois struct {
	Domain string `json:"domain"`
	Record string `json:"record,omitempty"`
	Err    string `json:"error,omitempty"`
}

// whoisRecords fetches the WHOIS record once per distinct result domain.
func whoisRecords(results []mailprobe.Result) []domainWhois {
	seen := make(map[string]bool)
	var out []domainWhois
	for _, r := range results {
		if r.Domain == "" || seen[r.Domain] {
			continue
		}
		seen[r.Domain] = true

		rec := domainWhois{Domain: r.Domain}
		raw, err := whois.Whois(r.Domain)
		if err != nil {
			rec.Err = err.Error()
		} else {
			rec.Record = raw
		}
		out = append(out, rec)
	}
	return out
}
