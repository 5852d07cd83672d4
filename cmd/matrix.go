package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	matrixDate  string
	archiveDate string
	archiveUser string
)

// matrixCmd groups the checklist maintenance commands.
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Maintain the daily checklist status matrix",
}

// matrixEnsureCmd creates the missing status cells of a day.
var matrixEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the missing status cells of a day",
	Long: `Creates one pending status cell for every active task and active
operation that has none yet on the given day. Existing cells are never
touched, so the command can be re-run safely.

Examples:
  # Today in the configured timezone
  matrix ensure

  # A specific day
  matrix ensure --date 2024-03-15`,
	RunE: runMatrixEnsure,
}

// matrixArchiveCmd snapshots a day into the checklist history.
var matrixArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Snapshot a day of the matrix into the checklist history",
	RunE:  runMatrixArchive,
}

func init() {
	matrixEnsureCmd.Flags().StringVar(&matrixDate, "date", "", "Day to reconcile (YYYY-MM-DD), defaults to today")
	matrixArchiveCmd.Flags().StringVar(&archiveDate, "date", "", "Day to archive (YYYY-MM-DD), defaults to today")
	matrixArchiveCmd.Flags().StringVar(&archiveUser, "user", "", "User recorded on the snapshots, defaults to the system user")

	matrixCmd.AddCommand(matrixEnsureCmd, matrixArchiveCmd)
	RootCmd.AddCommand(matrixCmd)
}

func runMatrixEnsure(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.checklist.EnsureDay(ctx, matrixDate)
	if err != nil {
		return err
	}
	a.logger.Info("Matrix reconciled",
		zap.String("date", report.Date),
		zap.Int("required", report.Required),
		zap.Int("existing", report.Existing),
		zap.Int("created", report.Created),
		zap.Int("failed", report.Failed))
	return printJSON(cmd, report)
}

func runMatrixArchive(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	date := archiveDate
	if date == "" {
		date = a.history.Today()
	}
	user := archiveUser
	if user == "" {
		user = a.cfg.Checklist.SystemUser
	}

	report, err := a.history.ArchiveDay(ctx, date, user)
	if err != nil {
		return err
	}
	return printJSON(cmd, report)
}
