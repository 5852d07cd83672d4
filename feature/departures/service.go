package departures

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"opsboard/core/lists"
	"opsboard/core/liststore"
	"opsboard/core/projection"
	"opsboard/core/schema"
	"opsboard/core/timegap"
	"opsboard/core/utils"
	"opsboard/feature/departures/assist"
	"opsboard/feature/departures/models"
	"opsboard/feature/departures/parser"

	"go.uber.org/zap"
)

// Parse sources reported by Parse and Import.
const (
	SourceParser = "parser"
	SourceAssist = "assist"
)

// ReadOptions tunes GetDepartures.
type ReadOptions struct {
	// Live computes the gap of today's departures without an end time against the current time.
	Live bool
}

// ImportRow is the outcome of one imported departure.
type ImportRow struct {
	Rota  string `json:"rota"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// ImportReport summarizes an import.
type ImportReport struct {
	Source string      `json:"source"`
	Saved  int         `json:"saved"`
	Failed int         `json:"failed"`
	Rows   []ImportRow `json:"rows"`
}

// Service implements the route departure operations.
type Service struct {
	store    liststore.Store
	resolver *schema.Resolver
	codec    projection.Codec
	cfg      Config
	assist   *assist.Parser
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a departure service. assistant may be nil.
func NewService(store liststore.Store, resolver *schema.Resolver, codec projection.Codec, cfg Config, assistant *assist.Parser, logger *zap.Logger) *Service {
	if cfg.Tolerance == "" {
		cfg.Tolerance = "00:05:00"
	}
	return &Service{
		store:    store,
		resolver: resolver,
		codec:    codec,
		cfg:      cfg,
		assist:   assistant,
		logger:   logger,
		now:      time.Now,
	}
}

// GetDepartures returns the active departures, most recent day first.
func (s *Service) GetDepartures(ctx context.Context, opts ReadOptions) projection.ReadResult[models.Departure] {
	b, err := s.resolver.Bind(ctx, lists.Departures)
	if err != nil {
		return s.degraded(err)
	}
	items, err := s.store.QueryItems(ctx, b.ContainerID(), b.ListID(), nil)
	if err != nil {
		return s.degraded(err)
	}

	now := s.now()
	today := s.codec.Today(now)
	out := make([]models.Departure, 0, len(items))
	for _, it := range items {
		d := models.DepartureFrom(it.ID, s.codec.Decode(models.DepartureTable, it.Fields, b))
		if opts.Live && d.Data == today && timegap.IsEmpty(d.Saida) {
			s.applyGap(&d, timegap.Options{Live: true, Now: s.localNow(now)})
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Data != out[j].Data {
			return out[i].Data > out[j].Data
		}
		return out[i].Inicio < out[j].Inicio
	})
	return projection.OK(out)
}

// Unlinked returns the departures without an operation code.
func (s *Service) Unlinked(ctx context.Context) projection.ReadResult[models.Departure] {
	all := s.GetDepartures(ctx, ReadOptions{})
	if all.Degraded() {
		return all
	}
	out := make([]models.Departure, 0)
	for _, d := range all.Items {
		if d.Unlinked() {
			out = append(out, d)
		}
	}
	return projection.OK(out)
}

// GetRouteMappings returns the route to operation mappings.
func (s *Service) GetRouteMappings(ctx context.Context) projection.ReadResult[models.RouteMapping] {
	b, err := s.resolver.Bind(ctx, lists.RouteMappings)
	if err != nil {
		return projection.Failed[models.RouteMapping](err)
	}
	items, err := s.store.QueryItems(ctx, b.ContainerID(), b.ListID(), nil)
	if err != nil {
		return projection.Failed[models.RouteMapping](err)
	}
	out := make([]models.RouteMapping, 0, len(items))
	for _, it := range items {
		v := s.codec.Decode(models.RouteMappingTable, it.Fields, b)
		out = append(out, models.RouteMapping{ID: it.ID, Rota: v.String("rota"), Operacao: v.String("operacao")})
	}
	return projection.OK(out)
}

// UpdateDeparture saves d and returns its id. Departures never persisted are
// created; the others are updated. Derived fields are recomputed and a blank
// operation is filled from the route mappings.
func (s *Service) UpdateDeparture(ctx context.Context, d models.Departure) (string, error) {
	var routes map[string]string
	if d.Unlinked() {
		routes = s.routeIndex(ctx)
	}
	return s.save(ctx, d, routes)
}

// DeleteDeparture removes a departure.
func (s *Service) DeleteDeparture(ctx context.Context, id string) error {
	if !persisted(id) {
		return utils.Invalidf("invalid departure id %q", id)
	}
	b, err := s.resolver.Bind(ctx, lists.Departures)
	if err != nil {
		return err
	}
	if err := s.store.DeleteItem(ctx, b.ContainerID(), b.ListID(), id); err != nil {
		return fmt.Errorf("delete departure %s: %w", id, err)
	}
	return nil
}

// ApplyEdit changes one field of a stored departure and saves it, recomputing
// its derived fields.
func (s *Service) ApplyEdit(ctx context.Context, id, field, value string) (models.Departure, error) {
	d, err := s.get(ctx, lists.Departures, id)
	if err != nil {
		return d, err
	}
	if !d.Set(field, strings.TrimSpace(value)) {
		return d, utils.Invalidf("field %q cannot be edited", field)
	}
	var routes map[string]string
	if d.Unlinked() {
		routes = s.routeIndex(ctx)
	}
	if _, err := s.save(ctx, d, routes); err != nil {
		return d, err
	}
	return s.get(ctx, lists.Departures, id)
}

// ArchiveDeparture copies a departure to the history list and removes it from
// the active list. It returns the id of the archived copy.
func (s *Service) ArchiveDeparture(ctx context.Context, id string) (string, error) {
	d, err := s.get(ctx, lists.Departures, id)
	if err != nil {
		return "", err
	}
	hb, err := s.resolver.Bind(ctx, lists.DeparturesHistory)
	if err != nil {
		return "", err
	}
	archived, err := s.store.CreateItem(ctx, hb.ContainerID(), hb.ListID(), s.codec.Encode(models.DepartureTable, d.Values(), hb))
	if err != nil {
		return "", fmt.Errorf("archive departure %s: %w", id, err)
	}
	if err := s.DeleteDeparture(ctx, id); err != nil {
		return archived, fmt.Errorf("departure %s archived as %s but not removed: %w", id, archived, err)
	}
	return archived, nil
}

// ParseDeparturesFromText runs the deterministic parser and fills derived fields.
func (s *Service) ParseDeparturesFromText(text string) []models.Departure {
	out := parser.Parse(text)
	for i := range out {
		s.applyGap(&out[i], timegap.Options{})
	}
	return out
}

// Parse extracts departures from text. With useAssist and a configured
// assistant the model is tried first; any failure falls back to the parser.
func (s *Service) Parse(ctx context.Context, text string, useAssist bool) ([]models.Departure, string) {
	if useAssist && s.assist != nil {
		out, err := s.assist.Parse(ctx, text)
		if err == nil {
			for i := range out {
				s.applyGap(&out[i], timegap.Options{})
			}
			return out, SourceAssist
		}
		s.logger.Warn("Assisted parse failed, using parser", zap.Error(err))
	}
	return s.ParseDeparturesFromText(text), SourceParser
}

// Import parses text and saves every departure found. Failures are reported per row.
func (s *Service) Import(ctx context.Context, text string, useAssist bool) ImportReport {
	records, source := s.Parse(ctx, text, useAssist)
	report := ImportReport{Source: source, Rows: make([]ImportRow, 0, len(records))}
	routes := s.routeIndex(ctx)

	for _, d := range records {
		d.ID = ""
		row := ImportRow{Rota: d.Rota, Data: d.Data}
		id, err := s.save(ctx, d, routes)
		if err != nil {
			row.Error = err.Error()
			report.Failed++
			s.logger.Warn("Failed to import departure", zap.String("rota", d.Rota), zap.String("data", d.Data), zap.Error(err))
		} else {
			row.ID = id
			report.Saved++
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

func (s *Service) save(ctx context.Context, d models.Departure, routes map[string]string) (string, error) {
	d.Rota = strings.TrimSpace(d.Rota)
	d.Operacao = strings.TrimSpace(d.Operacao)
	if d.Rota == "" {
		return "", utils.Invalidf("departure has no route")
	}
	if _, _, ok := s.codec.DayWindow(d.Data); !ok {
		return "", utils.Invalidf("invalid departure date %q", d.Data)
	}
	d.Inicio = timegap.Normalize(d.Inicio)
	d.Saida = timegap.Normalize(d.Saida)
	s.applyGap(&d, timegap.Options{})
	if d.Unlinked() {
		d.Operacao = routes[schema.Normalize(d.Rota)]
	}

	b, err := s.resolver.Bind(ctx, lists.Departures)
	if err != nil {
		return "", err
	}
	payload := s.codec.Encode(models.DepartureTable, d.Values(), b)

	if !persisted(d.ID) {
		id, err := s.store.CreateItem(ctx, b.ContainerID(), b.ListID(), payload)
		if err != nil {
			return "", fmt.Errorf("create departure %s: %w", d.Rota, err)
		}
		return id, nil
	}
	if err := s.store.PatchItem(ctx, b.ContainerID(), b.ListID(), d.ID, payload); err != nil {
		return "", fmt.Errorf("update departure %s: %w", d.ID, err)
	}
	return d.ID, nil
}

func (s *Service) get(ctx context.Context, kind lists.Kind, id string) (models.Departure, error) {
	if !persisted(id) {
		return models.Departure{}, utils.Invalidf("invalid departure id %q", id)
	}
	b, err := s.resolver.Bind(ctx, kind)
	if err != nil {
		return models.Departure{}, err
	}
	item, err := s.store.GetItem(ctx, b.ContainerID(), b.ListID(), id)
	if err != nil {
		return models.Departure{}, fmt.Errorf("load departure %s: %w", id, err)
	}
	return models.DepartureFrom(id, s.codec.Decode(models.DepartureTable, item.Fields, b)), nil
}

// routeIndex maps normalized routes to operation codes. A failed read leaves
// departures unlinked instead of failing the write.
func (s *Service) routeIndex(ctx context.Context) map[string]string {
	mappings := s.GetRouteMappings(ctx)
	if mappings.Degraded() {
		s.logger.Warn("Route mappings unavailable", zap.Error(mappings.Err))
	}
	index := make(map[string]string, len(mappings.Items))
	for _, m := range mappings.Items {
		key := schema.Normalize(m.Rota)
		if key == "" || strings.TrimSpace(m.Operacao) == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = strings.TrimSpace(m.Operacao)
		}
	}
	return index
}

func (s *Service) applyGap(d *models.Departure, opts timegap.Options) {
	gap := timegap.Compute(d.Inicio, d.Saida, s.cfg.Tolerance, opts)
	d.Tempo = gap.Text
	d.StatusOp = gap.Status
}

func (s *Service) localNow(now time.Time) time.Time {
	if s.codec.Location == nil {
		return now
	}
	return now.In(s.codec.Location)
}

func (s *Service) degraded(err error) projection.ReadResult[models.Departure] {
	s.logger.Warn("Departures read degraded", zap.Error(err))
	return projection.Failed[models.Departure](err)
}

// persisted reports whether id names a stored item.
func persisted(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
