package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEntities_FiltersByProduct(t *testing.T) {
	s := createTestStore(t)
	seedEntity(t, s, Entity{ID: 1, Product: "Widgets", CreationDay: day(100), Status: "NEW"})
	seedEntity(t, s, Entity{ID: 2, Product: "Gadgets", CreationDay: day(100), Status: "NEW"})

	got, err := s.LoadEntities(testCtx, "Widgets")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestLoadEntities_AllProducts(t *testing.T) {
	s := createTestStore(t)
	seedEntity(t, s, Entity{ID: 1, Product: "Widgets", CreationDay: day(100), Status: "NEW"})
	seedEntity(t, s, Entity{ID: 2, Product: "Gadgets", CreationDay: day(99), Status: "NEW"})

	got, err := s.LoadEntities(testCtx, AllProducts)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by creation day then id.
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestCountByCategory(t *testing.T) {
	s := createTestStore(t)
	seedEntity(t, s, Entity{ID: 1, Product: "Widgets", CreationDay: day(100), Status: "NEW"})
	seedEntity(t, s, Entity{ID: 2, Product: "Widgets", CreationDay: day(100), Status: "NEW"})
	seedEntity(t, s, Entity{ID: 3, Product: "Widgets", CreationDay: day(100), Status: "RESOLVED", Resolution: "FIXED"})
	seedEntity(t, s, Entity{ID: 4, Product: "Gadgets", CreationDay: day(100), Status: "NEW"})

	n, err := s.CountByCategory(testCtx, FieldStatus, "NEW", "Widgets")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountByCategory(testCtx, FieldStatus, "NEW", AllProducts)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.CountByCategory(testCtx, FieldResolution, "FIXED", "Widgets")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountByCategory_UnknownField(t *testing.T) {
	s := createTestStore(t)

	_, err := s.CountByCategory(testCtx, "severity", "HIGH", AllProducts)
	assert.Error(t, err)
}

func TestProducts(t *testing.T) {
	s := createTestStore(t)
	seedProduct(t, s, "Widgets")
	seedProduct(t, s, "Gadgets")

	got, err := s.Products(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gadgets", "Widgets"}, got)
}

func TestProductExists(t *testing.T) {
	s := createTestStore(t)
	seedProduct(t, s, "Widgets")

	ok, err := s.ProductExists(testCtx, "Widgets")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ProductExists(testCtx, "Gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadAuditEvents_GroupsAndOrders(t *testing.T) {
	s := createTestStore(t)
	seedEntity(t, s, Entity{ID: 1, Product: "Widgets", CreationDay: day(100), Status: "RESOLVED"})
	seedEntity(t, s, Entity{ID: 2, Product: "Gadgets", CreationDay: day(100), Status: "NEW"})

	// Inserted out of day order on purpose.
	seedAuditEvent(t, s, AuditEvent{EntityID: 1, Field: FieldStatus, Added: "RESOLVED", Removed: "ASSIGNED", Day: day(110), Seq: 2})
	seedAuditEvent(t, s, AuditEvent{EntityID: 1, Field: FieldStatus, Added: "ASSIGNED", Removed: "NEW", Day: day(105), Seq: 1})
	seedAuditEvent(t, s, AuditEvent{EntityID: 2, Field: FieldStatus, Added: "ASSIGNED", Removed: "NEW", Day: day(107), Seq: 3})

	events, err := s.LoadAuditEvents(testCtx, FieldStatus, "Widgets")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[1], 2)
	assert.Equal(t, day(105), events[1][0].Day)
	assert.Equal(t, day(110), events[1][1].Day)

	all, err := s.LoadAuditEvents(testCtx, FieldStatus, AllProducts)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
