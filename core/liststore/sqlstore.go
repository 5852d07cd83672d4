package liststore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// System columns every SQL-backed list carries. Only Title is writable.
var systemColumns = []Column{
	{Name: "id", DisplayName: "ID", ReadOnly: true},
	{Name: "Title", DisplayName: "Title"},
	{Name: "Created", DisplayName: "Created", ReadOnly: true},
	{Name: "Modified", DisplayName: "Modified", ReadOnly: true},
	{Name: "Author", DisplayName: "Created By", ReadOnly: true},
}

type listColumn struct {
	ID          uint   `gorm:"primaryKey"`
	ContainerID string `gorm:"size:191;index:idx_store_columns_list"`
	ListID      string `gorm:"size:191;index:idx_store_columns_list"`
	Name        string `gorm:"size:191"`
	DisplayName string `gorm:"size:255"`
	ReadOnly    bool
}

func (listColumn) TableName() string { return "store_columns" }

type listItem struct {
	ID          uint   `gorm:"primaryKey"`
	ContainerID string `gorm:"size:191;index:idx_store_items_list"`
	ListID      string `gorm:"size:191;index:idx_store_items_list"`
	Fields      string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (listItem) TableName() string { return "store_items" }

// SQLStore keeps lists in a relational database through gorm.
type SQLStore struct {
	db        *gorm.DB
	container string
	now       func() time.Time
}

// NewSQLStore returns a store over db. Call Migrate before first use on a fresh database.
func NewSQLStore(db *gorm.DB, container string) *SQLStore {
	if container == "" {
		container = "local"
	}
	return &SQLStore{db: db, container: container, now: time.Now}
}

// Migrate creates the backing tables when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&listColumn{}, &listItem{}); err != nil {
		return fmt.Errorf("failed to migrate list store tables: %w", err)
	}
	return nil
}

// ResolveContainer returns the configured container name.
func (s *SQLStore) ResolveContainer(ctx context.Context) (string, error) {
	return s.container, nil
}

// EnsureList registers the system columns plus cols for a list, skipping columns already present.
func (s *SQLStore) EnsureList(ctx context.Context, containerID, listID string, cols []Column) error {
	existing, err := s.columns(ctx, containerID, listID)
	if err != nil {
		return err
	}
	have := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		have[c.Name] = struct{}{}
	}

	var missing []listColumn
	for _, c := range append(append([]Column{}, systemColumns...), cols...) {
		if _, ok := have[c.Name]; ok {
			continue
		}
		have[c.Name] = struct{}{}
		missing = append(missing, listColumn{
			ContainerID: containerID,
			ListID:      listID,
			Name:        c.Name,
			DisplayName: c.DisplayName,
			ReadOnly:    c.ReadOnly,
		})
	}
	if len(missing) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&missing).Error; err != nil {
		return storeErr("ensure list", listID, err)
	}
	return nil
}

// FetchColumns returns the column metadata of a list.
func (s *SQLStore) FetchColumns(ctx context.Context, containerID, listID string) ([]Column, error) {
	cols, err := s.columns(ctx, containerID, listID)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, notFound("fetch columns", listID, "list not found")
	}
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		out = append(out, Column{Name: c.Name, DisplayName: c.DisplayName, ReadOnly: c.ReadOnly})
	}
	return out, nil
}

// QueryItems returns the items matching filter in creation order.
func (s *SQLStore) QueryItems(ctx context.Context, containerID, listID string, filter Filter) ([]Item, error) {
	if _, err := s.FetchColumns(ctx, containerID, listID); err != nil {
		return nil, err
	}

	var rows []listItem
	err := s.db.WithContext(ctx).
		Where("container_id = ? AND list_id = ?", containerID, listID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("query items", listID, err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		fields, err := decodeFields(row)
		if err != nil {
			return nil, storeErr("query items", listID, err)
		}
		if filter.Match(fields) {
			items = append(items, Item{ID: fields["id"].(string), Fields: fields})
		}
	}
	return items, nil
}

// GetItem returns one item.
func (s *SQLStore) GetItem(ctx context.Context, containerID, listID, itemID string) (Item, error) {
	row, err := s.find(ctx, "get item", containerID, listID, itemID)
	if err != nil {
		return Item{}, err
	}
	fields, err := decodeFields(*row)
	if err != nil {
		return Item{}, storeErr("get item", listID, err)
	}
	return Item{ID: itemID, Fields: fields}, nil
}

// CreateItem validates fields against the list columns and inserts a new item.
func (s *SQLStore) CreateItem(ctx context.Context, containerID, listID string, fields map[string]any) (string, error) {
	if err := s.validate(ctx, "create item", containerID, listID, fields); err != nil {
		return "", err
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	stored := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		stored[k] = v
	}
	stored["Created"] = stamp
	stored["Modified"] = stamp

	payload, err := json.Marshal(stored)
	if err != nil {
		return "", storeErr("create item", listID, err)
	}
	row := listItem{ContainerID: containerID, ListID: listID, Fields: string(payload)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", storeErr("create item", listID, err)
	}
	return strconv.FormatUint(uint64(row.ID), 10), nil
}

// PatchItem merges fields into an existing item.
func (s *SQLStore) PatchItem(ctx context.Context, containerID, listID, itemID string, fields map[string]any) error {
	if err := s.validate(ctx, "patch item", containerID, listID, fields); err != nil {
		return err
	}
	row, err := s.find(ctx, "patch item", containerID, listID, itemID)
	if err != nil {
		return err
	}

	current, err := decodeFields(*row)
	if err != nil {
		return storeErr("patch item", listID, err)
	}
	delete(current, "id")
	for k, v := range fields {
		current[k] = v
	}
	current["Modified"] = s.now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(current)
	if err != nil {
		return storeErr("patch item", listID, err)
	}
	if err := s.db.WithContext(ctx).Model(row).Update("fields", string(payload)).Error; err != nil {
		return storeErr("patch item", listID, err)
	}
	return nil
}

// DeleteItem removes an item.
func (s *SQLStore) DeleteItem(ctx context.Context, containerID, listID, itemID string) error {
	row, err := s.find(ctx, "delete item", containerID, listID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(row).Error; err != nil {
		return storeErr("delete item", listID, err)
	}
	return nil
}

func (s *SQLStore) columns(ctx context.Context, containerID, listID string) ([]listColumn, error) {
	var cols []listColumn
	err := s.db.WithContext(ctx).
		Where("container_id = ? AND list_id = ?", containerID, listID).
		Order("id").
		Find(&cols).Error
	if err != nil {
		return nil, storeErr("fetch columns", listID, err)
	}
	return cols, nil
}

func (s *SQLStore) find(ctx context.Context, op, containerID, listID, itemID string) (*listItem, error) {
	id, err := strconv.ParseUint(itemID, 10, 64)
	if err != nil {
		return nil, &Error{Op: op, List: listID, StatusCode: http.StatusBadRequest, Code: "invalidRequest", Message: "invalid item id " + strconv.Quote(itemID)}
	}

	var row listItem
	err = s.db.WithContext(ctx).
		Where("id = ? AND container_id = ? AND list_id = ?", id, containerID, listID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(op, listID, "item "+itemID+" not found")
	}
	if err != nil {
		return nil, storeErr(op, listID, err)
	}
	return &row, nil
}

// validate rejects writes naming unknown or read-only columns, mirroring the remote API.
func (s *SQLStore) validate(ctx context.Context, op, containerID, listID string, fields map[string]any) error {
	cols, err := s.FetchColumns(ctx, containerID, listID)
	if err != nil {
		return err
	}
	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		col, ok := byName[name]
		if !ok {
			return &Error{Op: op, List: listID, StatusCode: http.StatusBadRequest, Code: "invalidRequest", Message: "Field '" + name + "' is not recognized"}
		}
		if col.ReadOnly {
			return &Error{Op: op, List: listID, StatusCode: http.StatusBadRequest, Code: "invalidRequest", Message: "Field '" + name + "' is read-only"}
		}
	}
	return nil
}

func decodeFields(row listItem) (map[string]any, error) {
	fields := map[string]any{}
	if row.Fields != "" {
		if err := json.Unmarshal([]byte(row.Fields), &fields); err != nil {
			return nil, fmt.Errorf("item %d has malformed fields: %w", row.ID, err)
		}
	}
	fields["id"] = strconv.FormatUint(uint64(row.ID), 10)
	return fields, nil
}

func notFound(op, list, msg string) error {
	return &Error{Op: op, List: list, StatusCode: http.StatusNotFound, Code: "itemNotFound", Message: msg}
}

func storeErr(op, list string, err error) error {
	return &Error{Op: op, List: list, StatusCode: http.StatusInternalServerError, Code: "storageError", Message: err.Error()}
}
