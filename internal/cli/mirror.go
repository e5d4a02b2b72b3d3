package cli

import (
	"context"
	"fmt"
	"time"

	chartssvc "covtrend/internal/services/api/charts/service"

	"github.com/spf13/cobra"
)

func (a *App) mirrorCmd() *cobra.Command {
	var (
		since    string
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy postgres commits into the clickhouse mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseSince(since)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc, done, err := a.Open(ctx, a.Settings())
			if err != nil {
				return err
			}
			defer done()

			n, err := svc.Mirror(ctx, from, pageSize)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out(cmd), "mirrored %d commits since %s\n", n, from.Format(time.RFC3339))
			return err
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only commits at or after this date (2006-01-02 or RFC3339), empty mirrors everything")
	cmd.Flags().IntVar(&pageSize, "page-size", chartssvc.DefaultMirrorPage, "commits per batch")
	return cmd
}

func parseSince(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad --since %q: %w", s, err)
	}
	return t, nil
}
