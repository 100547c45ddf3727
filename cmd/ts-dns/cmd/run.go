package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/netguru/ts-dns/internal/dnsprovider"
	"github.com/netguru/ts-dns/internal/format"
	"github.com/netguru/ts-dns/internal/inventory"
	"github.com/netguru/ts-dns/pkg/api"
)

// run fetches the inventory once, pushes it when a syncer is given and then
// writes the requested rendering.
func run(ctx context.Context, logger *zap.Logger, o options, source api.InventorySource, syncer api.RecordSyncer, stdout io.Writer) error {
	inv, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tailnet inventory: %w", err)
	}
	logger.Debug("Fetched tailnet inventory", zap.Int("hosts", len(inv)))

	if syncer != nil {
		eps := dnsprovider.Endpoints(inv, o.domain, o.ttl, domainFilter(o))
		results, err := syncer.SyncAll(ctx, eps)
		printResults(stdout, results)
		if err != nil {
			return fmt.Errorf("failed to push records: %w", err)
		}
	}

	return writeOutput(stdout, o.output, render(inv, o))
}

// render returns the BIND or Pi-hole text, or "" when neither was requested.
func render(inv inventory.Inventory, o options) string {
	switch {
	case o.bind:
		return format.Bind(inv)
	case o.pihole:
		return format.Pihole(inv, o.domain)
	default:
		return ""
	}
}

func printResults(w io.Writer, results []dnsprovider.Result) {
	for _, res := range results {
		if res.DryRun {
			fmt.Fprintf(w, "Would %s %s: %s (dry-run)\n", res.Action, res.Hostname, res.Name)
			continue
		}
		fmt.Fprintf(w, "Updated %s: %s\n", res.Hostname, string(res.Response))
	}
}

// writeOutput writes text verbatim to path, or to w followed by a newline
// when path is empty.
func writeOutput(w io.Writer, path, text string) error {
	if path == "" {
		_, err := fmt.Fprintln(w, text)
		return err
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
