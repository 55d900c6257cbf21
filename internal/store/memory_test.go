package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/datalens/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string) *report.Document {
	return &report.Document{
		ID:           id,
		FileName:     id + ".csv",
		DataOverview: report.Overview{Rows: 3, Columns: 2},
	}
}

func TestMemoryStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)

	require.NoError(t, s.Save(ctx, doc("a")))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a.csv", got.FileName)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, doc(id)))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)
	assert.Equal(t, 3, all[0].Rows)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, []string{two[0].ID, two[1].ID})
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	require.NoError(t, s.Save(ctx, doc("a")))
	require.NoError(t, s.Save(ctx, doc("b")))
	require.NoError(t, s.Save(ctx, doc("c")))

	assert.Equal(t, 2, s.Len())
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = s.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryStore_ResaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	require.NoError(t, s.Save(ctx, doc("a")))
	require.NoError(t, s.Save(ctx, doc("b")))
	updated := doc("a")
	updated.FileName = "renamed.csv"
	require.NoError(t, s.Save(ctx, updated))

	assert.Equal(t, 2, s.Len())
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed.csv", got.FileName)

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", entries[0].ID)
}

func TestMemoryStore_DefaultCapacity(t *testing.T) {
	s := NewMemoryStore(0)
	assert.Equal(t, DefaultMemoryCapacity, s.capacity)
}

func TestMemoryStore_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("r%d", i)
			assert.NoError(t, s.Save(ctx, doc(id)))
			_, _ = s.Get(ctx, id)
			_, _ = s.List(ctx, 5)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
}

func TestMemoryStore_Purge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, doc(id)))
	}

	// a at 01:00, b at 02:00, c at 03:00
	n, err := s.Purge(ctx, base.Add(150*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = s.Get(ctx, "c")
	assert.NoError(t, err)

	n, err = s.Purge(ctx, base)
	require.NoError(t, err)
	assert.Zero(t, n)
}
