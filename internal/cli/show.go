package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/evalhub/internal/adapters/repository"
	"github.com/okian/evalhub/internal/client"
	"github.com/okian/evalhub/internal/domain/model"
)

// ErrUnknownBenchmark is returned by show for ids with no benchmark.
var ErrUnknownBenchmark = errors.New("benchmark not found")

var (
	flagShowRemote string
	flagShowJSON   bool
	flagShowNotes  bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one benchmark with its run command",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&flagShowRemote, "remote", "", "Read from a running server, e.g. http://localhost:3001")
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Print the detail as JSON")
	showCmd.Flags().BoolVar(&flagShowNotes, "notes", false, "Also print the full README")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]
	d, err := fetchDetail(cmd.Context(), id)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownBenchmark, id)
	}
	if err != nil {
		return err
	}

	if flagShowJSON {
		return writeJSON(cmd.OutOrStdout(), d)
	}
	printDetail(cmd.OutOrStdout(), d, flagShowNotes)
	return nil
}

func fetchDetail(ctx context.Context, id string) (model.Detail, error) {
	if flagShowRemote != "" {
		return newClient(flagShowRemote).Detail(ctx, id)
	}

	svc, err := startService(ctx)
	if err != nil {
		return model.Detail{}, err
	}
	defer svc.Stop()
	return svc.Detail(ctx, id)
}
