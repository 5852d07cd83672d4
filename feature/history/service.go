package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"opsboard/core/lists"
	"opsboard/core/liststore"
	"opsboard/core/projection"
	"opsboard/core/schema"
	"opsboard/core/utils"
	checklist "opsboard/feature/checklist/models"
	"opsboard/feature/history/models"

	"go.uber.org/zap"
)

// Checklist is the source of the daily matrix.
type Checklist interface {
	GetTasks(ctx context.Context) projection.ReadResult[checklist.Task]
	GetOperations(ctx context.Context, email string) projection.ReadResult[checklist.Operation]
	GetStatusByDate(ctx context.Context, date string) projection.ReadResult[checklist.StatusCell]
}

// ArchiveReport summarizes one archived day.
type ArchiveReport struct {
	Date     string `json:"date"`
	Saved    int    `json:"saved"`
	Failed   int    `json:"failed"`
	Exported string `json:"exported,omitempty"`
}

// Service reads and writes history snapshots.
type Service struct {
	store    liststore.Store
	resolver *schema.Resolver
	codec    projection.Codec
	matrix   Checklist
	exporter *Exporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a history service. exporter may be nil when object storage is disabled.
func NewService(store liststore.Store, resolver *schema.Resolver, codec projection.Codec, matrix Checklist, exporter *Exporter, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		codec:    codec,
		matrix:   matrix,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}
}

// GetHistory returns every snapshot, newest day first, with the status
// columns of the operations visible to email.
func (s *Service) GetHistory(ctx context.Context, email string) projection.ReadResult[models.Snapshot] {
	ops := s.matrix.GetOperations(ctx, email)
	if ops.Degraded() {
		return projection.Failed[models.Snapshot](ops.Err)
	}
	codes := make([]string, 0, len(ops.Items))
	for _, op := range ops.Items {
		codes = append(codes, op.Sigla)
	}

	b, err := s.resolver.Bind(ctx, lists.History)
	if err != nil {
		return s.degraded(err)
	}
	items, err := s.store.QueryItems(ctx, b.ContainerID(), b.ListID(), nil)
	if err != nil {
		return s.degraded(err)
	}

	out := make([]models.Snapshot, 0, len(items))
	for _, item := range items {
		v := s.codec.Decode(models.Table, item.Fields, b)
		status := s.codec.DecodeCollection(models.StatusField, codes, item.Fields, b)
		out = append(out, models.SnapshotFrom(item.ID, v, status))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DataRef != out[j].DataRef {
			return out[i].DataRef > out[j].DataRef
		}
		return out[i].Tarefa < out[j].Tarefa
	})
	return projection.OK(out)
}

// SaveHistory writes a snapshot, replacing the one with the same date and task.
// It returns the item id.
func (s *Service) SaveHistory(ctx context.Context, snap models.Snapshot) (string, error) {
	if snap.TarefaID == "" {
		return "", utils.Invalidf("snapshot has no task id")
	}
	if _, _, ok := s.codec.DayWindow(snap.DataRef); !ok {
		return "", utils.Invalidf("invalid reference date %q", snap.DataRef)
	}

	b, err := s.resolver.Bind(ctx, lists.History)
	if err != nil {
		return "", err
	}
	payload := s.codec.Encode(models.Table, snap.Values(), b)
	s.codec.EncodeCollection(models.StatusField, snap.Status, b, payload)

	existing, err := s.store.QueryItems(ctx, b.ContainerID(), b.ListID(), liststore.Filter{
		{Field: b.Field("titulo"), Op: liststore.OpEQ, Value: snap.Key()},
	})
	if err != nil {
		return "", fmt.Errorf("look up snapshot %s: %w", snap.Key(), err)
	}
	if len(existing) > 0 {
		id := latest(existing)
		if err := s.store.PatchItem(ctx, b.ContainerID(), b.ListID(), id, payload); err != nil {
			return "", fmt.Errorf("update snapshot %s: %w", snap.Key(), err)
		}
		return id, nil
	}

	id, err := s.store.CreateItem(ctx, b.ContainerID(), b.ListID(), payload)
	if err != nil {
		return "", fmt.Errorf("create snapshot %s: %w", snap.Key(), err)
	}
	return id, nil
}

// Archive saves the snapshots of one day and exports them when object
// storage is enabled. Individual save failures are counted, not returned.
func (s *Service) Archive(ctx context.Context, date string, snaps []models.Snapshot) (ArchiveReport, error) {
	report := ArchiveReport{Date: date}
	for _, snap := range snaps {
		if _, err := s.SaveHistory(ctx, snap); err != nil {
			report.Failed++
			s.logger.Warn("Failed to save history snapshot",
				zap.String("date", date),
				zap.String("task", snap.TarefaID),
				zap.Error(err))
			continue
		}
		report.Saved++
	}

	if s.exporter != nil {
		key, err := s.exporter.Export(ctx, date, snaps)
		if err != nil {
			return report, err
		}
		report.Exported = key
	}
	return report, nil
}

// ArchiveDay turns the matrix of date into one snapshot per active task and
// archives them. Cells missing from the matrix are archived as pending.
func (s *Service) ArchiveDay(ctx context.Context, date, user string) (ArchiveReport, error) {
	if _, _, ok := s.codec.DayWindow(date); !ok {
		return ArchiveReport{}, utils.Invalidf("invalid reference date %q", date)
	}

	tasks := s.matrix.GetTasks(ctx)
	if tasks.Degraded() {
		return ArchiveReport{}, fmt.Errorf("load tasks: %w", tasks.Err)
	}
	ops := s.matrix.GetOperations(ctx, "")
	if ops.Degraded() {
		return ArchiveReport{}, fmt.Errorf("load operations: %w", ops.Err)
	}
	cells := s.matrix.GetStatusByDate(ctx, date)
	if cells.Degraded() {
		return ArchiveReport{}, fmt.Errorf("load status of %s: %w", date, cells.Err)
	}

	byKey := make(map[string]string, len(cells.Items))
	for _, c := range cells.Items {
		byKey[c.Key()] = c.Status
	}

	var snaps []models.Snapshot
	for _, task := range tasks.Items {
		if !task.Ativa {
			continue
		}
		status := make(map[string]string, len(ops.Items))
		for _, op := range ops.Items {
			v, ok := byKey[checklist.CellKey(date, task.ID, op.Sigla)]
			if !ok {
				v = checklist.StatusPending
			}
			status[op.Sigla] = v
		}
		snaps = append(snaps, models.Snapshot{
			DataRef:  date,
			TarefaID: task.ID,
			Tarefa:   task.Titulo,
			Usuario:  user,
			Status:   status,
		})
	}

	report, err := s.Archive(ctx, date, snaps)
	if err != nil {
		return report, err
	}
	s.logger.Info("Day archived",
		zap.String("date", date),
		zap.Int("saved", report.Saved),
		zap.Int("failed", report.Failed),
		zap.String("exported", report.Exported))
	return report, nil
}

// Today returns the current day in the operation timezone.
func (s *Service) Today() string {
	return s.codec.Today(s.now())
}

// Exports returns the exporter, or nil when object storage is disabled.
func (s *Service) Exports() *Exporter {
	return s.exporter
}

func (s *Service) degraded(err error) projection.ReadResult[models.Snapshot] {
	s.logger.Warn("History read degraded", zap.Error(err))
	return projection.Failed[models.Snapshot](err)
}

// latest picks the item with the highest numeric id.
func latest(items []liststore.Item) string {
	best, bestN := items[0].ID, -1
	for _, it := range items {
		if n, ok := utils.AsInt(it.ID); ok && n > bestN {
			best, bestN = it.ID, n
		}
	}
	return best
}
