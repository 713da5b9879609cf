package cli

import (
	"context"
	"encoding/json"
	"io"

	"exam-portal/internal/app"
	"exam-portal/internal/config"
	"github.com/spf13/cobra"
)

// NewLeaderboardCmd prints the current leaderboard as JSON.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top learners by average score",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLeaderboard(cmd.Context(), *configPath, top, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&top, "top", app.DefaultLeaderboardSize, "number of entries to print")
	return cmd
}

func printLeaderboard(ctx context.Context, configPath string, top int, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	services := app.NewServices(st.tests, st.results, st.profiles)
	entries, err := services.Leaderboard.Compute(ctx, top)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
