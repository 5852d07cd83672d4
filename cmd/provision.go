package cmd

import (
	"context"
	"fmt"
	"strings"

	"opsboard/core/lists"
	"opsboard/core/liststore"
	checklistModels "opsboard/feature/checklist/models"
	departureModels "opsboard/feature/departures/models"
	historyModels "opsboard/feature/history/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var provisionOps string

// provisionCmd creates the lists on the SQL backend.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the lists and columns on the SQL backend",
	Long: `Registers every configured list and its columns in the SQL backend.
Columns already present are kept, so the command can be re-run after adding
operations. The history list gets one status column per active operation
plus the codes passed with --ops.

Examples:
  provision
  provision --ops LAT,UNA`,
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().StringVar(&provisionOps, "ops", "", "Extra operation codes for the history list, comma separated")
	RootCmd.AddCommand(provisionCmd)
}

var listColumns = map[lists.Kind][]liststore.Column{
	lists.Tasks:             checklistModels.TaskColumns,
	lists.Operations:        checklistModels.OperationColumns,
	lists.Status:            checklistModels.StatusColumns,
	lists.History:           historyModels.Columns,
	lists.Departures:        departureModels.DepartureColumns,
	lists.DeparturesHistory: departureModels.DepartureColumns,
	lists.RouteMappings:     departureModels.RouteMappingColumns,
}

func runProvision(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.sql == nil {
		return fmt.Errorf("provision needs the sql backend, configured backend is %q", a.cfg.Server.Backend)
	}

	container, err := a.sql.ResolveContainer(ctx)
	if err != nil {
		return err
	}

	for _, kind := range lists.All {
		listID, err := a.cfg.Lists.ListID(kind)
		if err != nil {
			return err
		}
		cols := listColumns[kind]
		if kind == lists.History {
			cols = append(append([]liststore.Column{}, cols...), a.historyColumns(ctx)...)
		}
		if err := a.sql.EnsureList(ctx, container, listID, cols); err != nil {
			return fmt.Errorf("provision %s: %w", listID, err)
		}
		a.logger.Info("List provisioned", zap.String("kind", string(kind)), zap.String("list", listID), zap.Int("columns", len(cols)))
	}
	return nil
}

// historyColumns returns one status column per operation code.
func (a *app) historyColumns(ctx context.Context) []liststore.Column {
	seen := map[string]struct{}{}
	var cols []liststore.Column
	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return
		}
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		cols = append(cols, liststore.Column{Name: code, DisplayName: code})
	}

	ops := a.checklist.GetOperations(ctx, "")
	if ops.Degraded() {
		a.logger.Warn("Operations unavailable, history gets only --ops columns", zap.Error(ops.Err))
	}
	for _, op := range ops.Items {
		add(op.Sigla)
	}
	for _, code := range strings.Split(provisionOps, ",") {
		add(code)
	}
	return cols
}
