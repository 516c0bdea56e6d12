package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/probelabs/mailprobe"
	"github.com/probelabs/mailprobe/mx"
)

var (
	mxFallback bool

	mxCmd = &cobra.Command{
		Use:   "mx domain [domain ...]",
		Short: "Resolve and print a domain's mail exchangers",
		Long: `Mx resolves each domain's MX records and prints them sorted by
preference. A full address may be given instead of a domain. The exit
status is non-zero when any domain has no usable exchanges.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMX,
	}
)

func init() {
	mxCmd.Flags().BoolVar(&mxFallback, "fallback-a", false, "treat a domain without MX but with address records as its own exchange")

	rootCmd.AddCommand(mxCmd)
}

type domainExchanges struct {
	Domain    string               `json:"domain"`
	Exchanges []mailprobe.Exchange `json:"exchanges,omitempty"`
	Err       string               `json:"error,omitempty"`
}

func runMX(cmd *cobra.Command, args []string) error {
	var resolver mx.Resolver = net.DefaultResolver
	if mxFallback || cfg.DNS.FallbackToA {
		resolver = mx.FallbackResolver{}
	}
	cache := mx.NewCache(resolver, cfg.DNSOptions().Timeout, 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := make([]domainExchanges, 0, len(args))
	failed := false
	for _, domain := range args {
		res := domainExchanges{Domain: domain}
		exchanges, err := cache.Lookup(ctx, domain)
		switch {
		case err != nil:
			res.Err = err.Error()
			failed = true
		case len(exchanges) == 0:
			res.Err = "no MX records"
			failed = true
		default:
			res.Exchanges = exchanges
		}
		out = append(out, res)
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		if err := printJSON(w, out); err != nil {
			return err
		}
	} else {
		for _, res := range out {
			if res.Err != "" {
				fmt.Fprintf(w, "%s: %s\n", res.Domain, res.Err)
				continue
			}
			fmt.Fprintf(w, "%s:\n", res.Domain)
			for _, ex := range res.Exchanges {
				fmt.Fprintf(w, "  %d\t%s\n", ex.Pref, ex.Host)
			}
		}
	}

	if failed {
		return errors.New("some domains could not be resolved")
	}
	return nil
}
