package mocks

import (
	"context"

	"opsboard/core/liststore"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of liststore.Store
type Store struct {
	mock.Mock
}

func (m *Store) ResolveContainer(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *Store) FetchColumns(ctx context.Context, containerID, listID string) ([]liststore.Column, error) {
	args := m.Called(ctx, containerID, listID)
	if cols, ok := args.Get(0).([]liststore.Column); ok {
		return cols, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) QueryItems(ctx context.Context, containerID, listID string, filter liststore.Filter) ([]liststore.Item, error) {
	args := m.Called(ctx, containerID, listID, filter)
	if items, ok := args.Get(0).([]liststore.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetItem(ctx context.Context, containerID, listID, itemID string) (liststore.Item, error) {
	args := m.Called(ctx, containerID, listID, itemID)
	if item, ok := args.Get(0).(liststore.Item); ok {
		return item, args.Error(1)
	}
	return liststore.Item{}, args.Error(1)
}

func (m *Store) CreateItem(ctx context.Context, containerID, listID string, fields map[string]any) (string, error) {
	args := m.Called(ctx, containerID, listID, fields)
	return args.String(0), args.Error(1)
}

func (m *Store) PatchItem(ctx context.Context, containerID, listID, itemID string, fields map[string]any) error {
	args := m.Called(ctx, containerID, listID, itemID, fields)
	return args.Error(0)
}

func (m *Store) DeleteItem(ctx context.Context, containerID, listID, itemID string) error {
	args := m.Called(ctx, containerID, listID, itemID)
	return args.Error(0)
}
