package cli

import (
	"context"
	"fmt"

	"covtrend/internal/services/api/charts/domain"

	"github.com/spf13/cobra"
)

type chartFlags struct {
	service    string
	owner      string
	userID     int64
	params     []string
	paramsFile string
}

func (a *App) chartCmd() *cobra.Command {
	f := &chartFlags{}
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Run a coverage chart query",
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.service, "service", "github", "git hosting service of the owner")
	pf.StringVar(&f.owner, "owner", "", "owner username")
	pf.Int64Var(&f.userID, "user", 0, "requesting user id, 0 is anonymous")
	pf.StringArrayVarP(&f.params, "param", "p", nil, "chart parameter key=value, repeatable")
	pf.StringVar(&f.paramsFile, "params-file", "", "json file with chart parameters")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "repository",
			Short: "Coverage per repository",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runChart(cmd, f, func(ctx context.Context, svc domain.ServicePort, in domain.ChartInput) error {
					res, err := svc.Repository(ctx, in)
					if err != nil {
						return err
					}
					return renderRepository(out(cmd), a.Settings().Format, res)
				})
			},
		},
		&cobra.Command{
			Use:   "organization",
			Short: "Weighted coverage across repositories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runChart(cmd, f, func(ctx context.Context, svc domain.ServicePort, in domain.ChartInput) error {
					res, err := svc.Organization(ctx, in)
					if err != nil {
						return err
					}
					return renderOrganization(out(cmd), a.Settings().Format, res)
				})
			},
		},
	)
	return cmd
}

func (a *App) runChart(cmd *cobra.Command, f *chartFlags, run func(context.Context, domain.ServicePort, domain.ChartInput) error) error {
	if f.owner == "" {
		return errMissing("owner")
	}
	s := a.Settings()
	if s.Format != FormatTable && s.Format != FormatJSON {
		return fmt.Errorf("unknown format %q", s.Format)
	}
	params, err := parseParams(f.paramsFile, f.params)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, done, err := a.Open(ctx, s)
	if err != nil {
		return err
	}
	defer done()

	return run(ctx, svc, domain.ChartInput{
		Service: f.service,
		Owner:   f.owner,
		UserID:  f.userID,
		Params:  params,
	})
}
