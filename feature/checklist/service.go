package checklist

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"opsboard/core/lists"
	"opsboard/core/liststore"
	"opsboard/core/projection"
	"opsboard/core/schema"
	"opsboard/core/utils"
	"opsboard/feature/checklist/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MatrixReport summarizes one reconciliation run.
type MatrixReport struct {
	Date     string `json:"date"`
	Required int    `json:"required"`
	Existing int    `json:"existing"`
	Created  int    `json:"created"`
	Failed   int    `json:"failed"`
}

// Service implements the checklist operations.
type Service struct {
	store    liststore.Store
	resolver *schema.Resolver
	codec    projection.Codec
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time

	// matrixMu serializes reconciliation so overlapping runs never create the same cell twice.
	matrixMu sync.Mutex
}

// NewService creates a checklist service.
func NewService(store liststore.Store, resolver *schema.Resolver, codec projection.Codec, cfg Config, logger *zap.Logger) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Service{
		store:    store,
		resolver: resolver,
		codec:    codec,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Today returns the current day in the operation timezone.
func (s *Service) Today() string {
	return s.codec.Today(s.now())
}

// GetTasks returns every task definition ordered for display.
func (s *Service) GetTasks(ctx context.Context) projection.ReadResult[models.Task] {
	items, b, err := s.query(ctx, lists.Tasks, nil)
	if err != nil {
		return degraded[models.Task](s.logger, lists.Tasks, err)
	}
	out := make([]models.Task, 0, len(items))
	for _, it := range items {
		out = append(out, models.TaskFrom(it.ID, s.codec.Decode(models.TaskTable, it.Fields, b)))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ordem != out[j].Ordem {
			return out[i].Ordem < out[j].Ordem
		}
		return out[i].Titulo < out[j].Titulo
	})
	return projection.OK(out)
}

// GetOperations returns the active operations visible to email. An empty
// email sees every active operation.
func (s *Service) GetOperations(ctx context.Context, email string) projection.ReadResult[models.Operation] {
	items, b, err := s.query(ctx, lists.Operations, nil)
	if err != nil {
		return degraded[models.Operation](s.logger, lists.Operations, err)
	}
	out := make([]models.Operation, 0, len(items))
	for _, it := range items {
		op := models.OperationFrom(it.ID, s.codec.Decode(models.OperationTable, it.Fields, b))
		if !op.Ativa || op.Sigla == "" || !op.VisibleTo(email) {
			continue
		}
		out = append(out, op)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ordem != out[j].Ordem {
			return out[i].Ordem < out[j].Ordem
		}
		return out[i].Sigla < out[j].Sigla
	})
	return projection.OK(out)
}

// GetStatusByDate returns the cells of date, one per composite key. When a
// key has duplicates the cell with the highest numeric id wins.
func (s *Service) GetStatusByDate(ctx context.Context, date string) projection.ReadResult[models.StatusCell] {
	cells, err := s.cellsOf(ctx, date)
	if err != nil {
		return degraded[models.StatusCell](s.logger, lists.Status, err)
	}
	out := make([]models.StatusCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TarefaID != out[j].TarefaID {
			return out[i].TarefaID < out[j].TarefaID
		}
		return out[i].Operacao < out[j].Operacao
	})
	return projection.OK(out)
}

// UpdateStatusCell records a status. An existing cell with the same composite
// key only gets its status and user patched; otherwise the cell is created.
func (s *Service) UpdateStatusCell(ctx context.Context, cell models.StatusCell) (models.StatusCell, error) {
	if err := s.validateCell(&cell); err != nil {
		return cell, err
	}
	b, err := s.resolver.Bind(ctx, lists.Status)
	if err != nil {
		return cell, err
	}

	existing, err := s.store.QueryItems(ctx, b.ContainerID(), b.ListID(), liststore.Filter{
		{Field: b.Field("titulo"), Op: liststore.OpEQ, Value: cell.Key()},
	})
	if err != nil {
		return cell, fmt.Errorf("look up cell %s: %w", cell.Key(), err)
	}

	if len(existing) > 0 {
		cell.ID = highestID(existing)
		payload := s.codec.EncodeFields(models.StatusTable, cell.Values(), b, "status", "usuario")
		if err := s.store.PatchItem(ctx, b.ContainerID(), b.ListID(), cell.ID, payload); err != nil {
			return cell, fmt.Errorf("update cell %s: %w", cell.Key(), err)
		}
		return cell, nil
	}

	id, err := s.store.CreateItem(ctx, b.ContainerID(), b.ListID(), s.codec.Encode(models.StatusTable, cell.Values(), b))
	if err != nil {
		return cell, fmt.Errorf("create cell %s: %w", cell.Key(), err)
	}
	cell.ID = id
	return cell, nil
}

// EnsureMatrix creates the missing cells of date for every active task and
// every operation in ops. It is safe to repeat: cells already present are
// left alone, and failed creations are retried by the next run.
func (s *Service) EnsureMatrix(ctx context.Context, tasks []models.Task, ops []models.Operation, date string) (MatrixReport, error) {
	report := MatrixReport{Date: date}
	if _, _, ok := s.codec.DayWindow(date); !ok {
		return report, utils.Invalidf("invalid reference date %q", date)
	}

	s.matrixMu.Lock()
	defer s.matrixMu.Unlock()

	b, err := s.resolver.Bind(ctx, lists.Status)
	if err != nil {
		return report, err
	}
	existing, err := s.cellsOf(ctx, date)
	if err != nil {
		return report, fmt.Errorf("load cells of %s: %w", date, err)
	}

	var missing []models.StatusCell
	seen := make(map[string]struct{})
	for _, task := range tasks {
		if !task.Ativa || task.ID == "" {
			continue
		}
		for _, op := range ops {
			sigla := strings.TrimSpace(op.Sigla)
			if sigla == "" {
				continue
			}
			cell := models.StatusCell{
				TarefaID: task.ID,
				Operacao: sigla,
				DataRef:  date,
				Status:   models.StatusPending,
				Usuario:  s.cfg.SystemUser,
			}
			// Repeated tasks or operations map to the same cell.
			if _, dup := seen[cell.Key()]; dup {
				continue
			}
			seen[cell.Key()] = struct{}{}
			report.Required++
			if _, ok := existing[cell.Key()]; ok {
				report.Existing++
				continue
			}
			missing = append(missing, cell)
		}
	}

	var created, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)
	for _, cell := range missing {
		g.Go(func() error {
			payload := s.codec.Encode(models.StatusTable, cell.Values(), b)
			if _, err := s.store.CreateItem(ctx, b.ContainerID(), b.ListID(), payload); err != nil {
				failed.Add(1)
				s.logger.Warn("Failed to create status cell",
					zap.String("key", cell.Key()),
					zap.Error(err))
				return nil
			}
			created.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report.Created = int(created.Load())
	report.Failed = int(failed.Load())
	s.logger.Info("Matrix ensured",
		zap.String("date", date),
		zap.Int("required", report.Required),
		zap.Int("existing", report.Existing),
		zap.Int("created", report.Created),
		zap.Int("failed", report.Failed))
	return report, nil
}

// EnsureDay loads tasks and operations and ensures the matrix of date.
// An empty date means today.
func (s *Service) EnsureDay(ctx context.Context, date string) (MatrixReport, error) {
	if date == "" {
		date = s.Today()
	}
	tasks := s.GetTasks(ctx)
	if tasks.Degraded() {
		return MatrixReport{Date: date}, fmt.Errorf("load tasks: %w", tasks.Err)
	}
	ops := s.GetOperations(ctx, "")
	if ops.Degraded() {
		return MatrixReport{Date: date}, fmt.Errorf("load operations: %w", ops.Err)
	}
	return s.EnsureMatrix(ctx, tasks.Items, ops.Items, date)
}

// cellsOf loads the cells whose reference date falls in the day window of
// date, keyed by composite key.
func (s *Service) cellsOf(ctx context.Context, date string) (map[string]models.StatusCell, error) {
	start, end, ok := s.codec.DayWindow(date)
	if !ok {
		return nil, utils.Invalidf("invalid reference date %q", date)
	}
	b, err := s.resolver.Bind(ctx, lists.Status)
	if err != nil {
		return nil, err
	}
	field := b.Field("dataRef")
	items, err := s.store.QueryItems(ctx, b.ContainerID(), b.ListID(), liststore.Filter{
		{Field: field, Op: liststore.OpGE, Value: start},
		{Field: field, Op: liststore.OpLE, Value: end},
	})
	if err != nil {
		return nil, err
	}

	cells := make(map[string]models.StatusCell, len(items))
	ids := make(map[string]int, len(items))
	for _, it := range items {
		c := models.StatusCellFrom(it.ID, s.codec.Decode(models.StatusTable, it.Fields, b))
		if c.TarefaID == "" || c.Operacao == "" {
			continue
		}
		n, _ := utils.AsInt(it.ID)
		if prev, ok := ids[c.Key()]; ok && prev >= n {
			continue
		}
		cells[c.Key()] = c
		ids[c.Key()] = n
	}
	return cells, nil
}

func (s *Service) query(ctx context.Context, kind lists.Kind, filter liststore.Filter) ([]liststore.Item, *schema.Binding, error) {
	b, err := s.resolver.Bind(ctx, kind)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.QueryItems(ctx, b.ContainerID(), b.ListID(), filter)
	if err != nil {
		return nil, nil, err
	}
	return items, b, nil
}

func (s *Service) validateCell(c *models.StatusCell) error {
	c.TarefaID = strings.TrimSpace(c.TarefaID)
	c.Operacao = strings.TrimSpace(c.Operacao)
	if c.TarefaID == "" || c.Operacao == "" {
		return utils.Invalidf("cell needs a task id and an operation code")
	}
	if _, _, ok := s.codec.DayWindow(c.DataRef); !ok {
		return utils.Invalidf("invalid reference date %q", c.DataRef)
	}
	for _, st := range models.Statuses {
		if strings.EqualFold(c.Status, st) {
			c.Status = st
			return nil
		}
	}
	return utils.Invalidf("invalid status %q", c.Status)
}

func degraded[T any](logger *zap.Logger, kind lists.Kind, err error) projection.ReadResult[T] {
	logger.Warn("Checklist read degraded", zap.String("list", string(kind)), zap.Error(err))
	return projection.Failed[T](err)
}

// highestID picks the item with the highest numeric id.
func highestID(items []liststore.Item) string {
	best, bestN := items[0].ID, -1
	for _, it := range items {
		if n, ok := utils.AsInt(it.ID); ok && n > bestN {
			best, bestN = it.ID, n
		}
	}
	return best
}
