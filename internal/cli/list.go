package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/internal/domain/query"
)

var (
	flagListGroup  string
	flagListQuery  string
	flagListRemote string
	flagListJSON   bool
)

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls"},
	Short:   "List benchmarks grouped by category",
	Long: `list prints every benchmark, one table per group. The query matches id,
title, description, contributors, tags and task names case-insensitively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListGroup, "group", "g", "", "Only show this group (\""+query.AllGroups+"\" shows every group)")
	listCmd.Flags().StringVarP(&flagListQuery, "query", "q", "", "Search text")
	listCmd.Flags().StringVar(&flagListRemote, "remote", "", "Read from a running server, e.g. http://localhost:3001")
	listCmd.Flags().BoolVar(&flagListJSON, "json", false, "Print {evals, total} as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	p := query.Params{Group: flagListGroup, Text: flagListQuery}
	if len(args) == 1 {
		p.Text = args[0]
	}
	p = p.Normalize()

	snap, err := fetchList(cmd.Context(), p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagListJSON {
		return writeJSON(out, snap)
	}
	if snap.Total == 0 {
		fmt.Fprintln(out, "No benchmarks match.")
		return nil
	}
	printSections(out, query.Sections(snap.Evals))
	fmt.Fprintf(out, "\n%s\n", plural(snap.Total, "benchmark"))
	return nil
}

func fetchList(ctx context.Context, p query.Params) (model.Snapshot, error) {
	if flagListRemote != "" {
		snap, err := newClient(flagListRemote).List(ctx)
		if err != nil {
			return model.Snapshot{}, err
		}
		return model.NewDataset(query.Filter(snap.Evals, p)).Snapshot(), nil
	}

	svc, err := startService(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer svc.Stop()
	return svc.List(ctx, p)
}
