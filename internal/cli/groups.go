package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagGroupsRemote string
	flagGroupsJSON   bool
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the distinct benchmark groups",
	Args:  cobra.NoArgs,
	RunE:  runGroups,
}

func init() {
	groupsCmd.Flags().StringVar(&flagGroupsRemote, "remote", "", "Read from a running server, e.g. http://localhost:3001")
	groupsCmd.Flags().BoolVar(&flagGroupsJSON, "json", false, "Print {groups} as JSON")
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(cmd *cobra.Command, _ []string) error {
	groups, err := fetchGroups(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagGroupsJSON {
		return writeJSON(out, map[string][]string{"groups": groups})
	}
	for _, g := range groups {
		fmt.Fprintln(out, g)
	}
	return nil
}

func fetchGroups(ctx context.Context) ([]string, error) {
	if flagGroupsRemote != "" {
		return newClient(flagGroupsRemote).Groups(ctx)
	}

	svc, err := startService(ctx)
	if err != nil {
		return nil, err
	}
	defer svc.Stop()
	return svc.Groups(ctx)
}
