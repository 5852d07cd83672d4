package schema_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"opsboard/core/lists"
	"opsboard/core/liststore"
	"opsboard/core/liststore/mocks"
	"opsboard/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLists() lists.Config {
	return lists.Config{
		Tasks:      "Tarefas",
		Operations: "Operacoes",
		Status:     "StatusChecklist",
		Departures: "SaidasRotas",
		TitleField: "Title",
	}
}

func TestResolver_SchemaIsCached(t *testing.T) {
	store := new(mocks.Store)
	store.On("FetchColumns", mock.Anything, "site", "SaidasRotas").Return(departureColumns, nil).Once()

	r := schema.NewResolver(store, schema.Options{Lists: testLists()})
	ctx := context.Background()

	first, err := r.Schema(ctx, "site", "SaidasRotas")
	require.NoError(t, err)
	second, err := r.Schema(ctx, "site", "SaidasRotas")
	require.NoError(t, err)

	assert.Same(t, first, second)
	store.AssertNumberOfCalls(t, "FetchColumns", 1)
}

func TestResolver_ConcurrentSchemaFetchesOnce(t *testing.T) {
	store := new(mocks.Store)
	store.On("FetchColumns", mock.Anything, "site", "SaidasRotas").Return(departureColumns, nil)

	r := schema.NewResolver(store, schema.Options{Lists: testLists()})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Schema(context.Background(), "site", "SaidasRotas")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Late arrivals hit the cache; overlapping callers share one in-flight fetch.
	calls := 0
	for _, c := range store.Calls {
		if c.Method == "FetchColumns" {
			calls++
		}
	}
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, 16)

	_, err := r.Schema(context.Background(), "site", "SaidasRotas")
	assert.NoError(t, err)
}

func TestResolver_SchemaErrorIsNotCached(t *testing.T) {
	store := new(mocks.Store)
	store.On("FetchColumns", mock.Anything, "site", "Tarefas").
		Return(nil, &liststore.Error{Op: "fetch columns", List: "Tarefas", StatusCode: 404, Message: "list not found"}).Once()
	store.On("FetchColumns", mock.Anything, "site", "Tarefas").
		Return([]liststore.Column{{Name: "Title"}}, nil).Once()

	r := schema.NewResolver(store, schema.Options{Lists: testLists()})

	_, err := r.Schema(context.Background(), "site", "Tarefas")
	require.Error(t, err)
	assert.True(t, liststore.IsNotFound(err))

	m, err := r.Schema(context.Background(), "site", "Tarefas")
	require.NoError(t, err)
	assert.True(t, m.IsKnown("Title"))
}

func TestResolver_ContainerIsMemoized(t *testing.T) {
	store := new(mocks.Store)
	store.On("ResolveContainer", mock.Anything).Return("site-42", nil).Once()

	r := schema.NewResolver(store, schema.Options{Lists: testLists()})
	for i := 0; i < 3; i++ {
		id, err := r.Container(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "site-42", id)
	}
	store.AssertNumberOfCalls(t, "ResolveContainer", 1)
}

func TestResolver_FieldName(t *testing.T) {
	overrides, err := schema.ParseOverrides("saidas.operacao=Opera_x00e7__x00e3_o;saidas.motorista=Condutor")
	require.NoError(t, err)

	r := schema.NewResolver(new(mocks.Store), schema.Options{Lists: testLists(), Overrides: overrides})
	m := schema.NewColumnMapping("site", "SaidasRotas", "Title", departureColumns)

	tests := []struct {
		name    string
		logical string
		kind    lists.Kind
		want    string
	}{
		{"TitleAlias", "titulo", lists.Departures, "Title"},
		{"RouteAlias", "Rota", lists.Tasks, "Title"},
		{"OverrideWinsOverMapping", "motorista", lists.Departures, "Condutor"},
		{"OverrideOnlyForItsList", "motorista", lists.Tasks, "Motorista0"},
		{"OverrideForMissingColumn", "operacao", lists.Departures, "Opera_x00e7__x00e3_o"},
		{"DisplayName", "Observação", lists.Departures, "field_7"},
		{"CaseInsensitive", "PLACA", lists.Departures, "Placa"},
		{"UnknownPassesThrough", "statusOp", lists.Departures, "statusOp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.FieldName(m, tt.logical, tt.kind))
		})
	}
}

func TestResolver_BindAndWarm(t *testing.T) {
	store := new(mocks.Store)
	store.On("ResolveContainer", mock.Anything).Return("site", nil)
	store.On("FetchColumns", mock.Anything, "site", "SaidasRotas").Return(departureColumns, nil).Once()
	store.On("FetchColumns", mock.Anything, "site", "Tarefas").Return([]liststore.Column{{Name: "Title"}, {Name: "Ordem"}}, nil).Once()

	r := schema.NewResolver(store, schema.Options{Lists: testLists()})
	require.NoError(t, r.Warm(context.Background(), lists.Departures, lists.Tasks))

	b, err := r.Bind(context.Background(), lists.Departures)
	require.NoError(t, err)
	assert.Equal(t, "site", b.ContainerID())
	assert.Equal(t, "SaidasRotas", b.ListID())
	assert.Equal(t, "Motorista0", b.Field("motorista"))
	assert.True(t, b.Writable("Motorista0"))
	assert.False(t, b.Writable("Tempo"))

	store.AssertNumberOfCalls(t, "FetchColumns", 2)
}

func TestResolver_WarmPropagatesErrors(t *testing.T) {
	store := new(mocks.Store)
	store.On("ResolveContainer", mock.Anything).Return("", errors.New("dns failure"))

	r := schema.NewResolver(store, schema.Options{Lists: testLists()})
	err := r.Warm(context.Background(), lists.Tasks)
	assert.ErrorContains(t, err, "dns failure")

	_, err = r.Bind(context.Background(), lists.History)
	assert.ErrorContains(t, err, "no list configured")
}
