package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/cache"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/filesource"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/smb-dashboard-bfa/internal/reporting"
	"github.com/boddenberg/smb-dashboard-bfa/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type reportCmd struct {
	file       string
	period     string
	limit      int
	now        string
	months     int
	legacyKeys bool
	logger     *zap.Logger
}

func newReportCmd(logger *zap.Logger) *cobra.Command {
	rc := &reportCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the dashboard report for a record export",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.file, "file", "", "Path to a JSON export with invoices and expenses")
	cmd.Flags().StringVar(&rc.period, "period", string(domain.DefaultPeriod), "Period: 30days, 3months, 6months or 12months")
	cmd.Flags().IntVar(&rc.limit, "limit", reporting.DefaultActivityLimit, "Number of recent activity items")
	cmd.Flags().StringVar(&rc.now, "now", "", "Reference date (default: today)")
	cmd.Flags().IntVar(&rc.months, "months", reporting.DefaultWindow, "Months in the rolling window")
	cmd.Flags().BoolVar(&rc.legacyKeys, "legacy-month-keys", false, "Match buckets by month name only")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (rc *reportCmd) run(cmd *cobra.Command, _ []string) error {
	clock := time.Now
	if rc.now != "" {
		ref, ok := reporting.ParseDate(rc.now)
		if !ok {
			return fmt.Errorf("invalid --now %q: expected a date such as 2026-10-18", rc.now)
		}
		clock = func() time.Time { return ref }
	}

	snap, err := filesource.Load(rc.file)
	if err != nil {
		return err
	}

	opts := []reporting.Option{reporting.WithWindow(rc.months)}
	if rc.legacyKeys {
		opts = append(opts, reporting.WithMonthNameKeys())
	}
	engine := reporting.New(rc.logger, opts...)

	// Single-shot run: the snapshot cache is disabled.
	svc := service.NewDashboardService(
		filesource.NewSource(snap),
		engine,
		cache.New[*domain.RecordSnapshot](0),
		observability.NewMetrics(),
		rc.logger,
		clock,
		"file",
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	report, err := svc.GetDashboard(ctx, "local", domain.ParsePeriod(rc.period), rc.limit)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
