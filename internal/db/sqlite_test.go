package db

import (
	"path/filepath"
	"testing"
	"time"

	"blogtools/internal/benchmark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(source string, ts time.Time, gbs float64) benchmark.Run {
	table := benchmark.NewResultTable(
		[]benchmark.TestFile{"chinese.txt", "english.txt"},
		[]benchmark.TestVariant{"std::wstring_convert", "utf8_lookup"},
	)
	table.Set("chinese.txt", "std::wstring_convert", benchmark.MetricSet{MemUse: 4096, BytesPerCodepoint: 3, CodepointsPerMicrosecond: 120.5, GBPerSec: 0.36})
	table.Set("chinese.txt", "utf8_lookup", benchmark.MetricSet{MemUse: 256, BytesPerCodepoint: 3, CodepointsPerMicrosecond: 410.25, GBPerSec: gbs})
	table.Set("english.txt", "std::wstring_convert", benchmark.MetricSet{MemUse: 4096, BytesPerCodepoint: 1, CodepointsPerMicrosecond: 520, GBPerSec: 0.52})
	table.Set("english.txt", "utf8_lookup", benchmark.MetricSet{MemUse: 256, BytesPerCodepoint: 1, CodepointsPerMicrosecond: 2000, GBPerSec: 2})
	return benchmark.NewRun(source, table, ts)
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	latest, err := store.LoadLatest("utf8_bench")
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(sampleRun("utf8_bench", base, 1.23)))
	require.NoError(t, store.Save(sampleRun("other_bench", base.Add(time.Minute), 9)))
	require.NoError(t, store.Save(sampleRun("utf8_bench", base.Add(time.Hour), 1.5)))

	latest, err = store.LoadLatest("utf8_bench")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "utf8_bench", latest.Source)
	assert.True(t, latest.Timestamp.Equal(base.Add(time.Hour)))
	assert.Equal(t, []benchmark.TestFile{"chinese.txt", "english.txt"}, latest.Files)
	assert.Equal(t, []benchmark.TestVariant{"std::wstring_convert", "utf8_lookup"}, latest.Variants)
	require.Len(t, latest.Measurements, 4)
	assert.Equal(t, benchmark.TestVariant("utf8_lookup"), latest.Measurements[1].Variant)
	assert.Equal(t, 1.5, latest.Measurements[1].GBPerSec)

	m, err := latest.Table().Lookup("english.txt", "std::wstring_convert")
	require.NoError(t, err)
	assert.Equal(t, 520.0, m.CodepointsPerMicrosecond)

	all, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "utf8_bench", all[0].Source)
	assert.Equal(t, "other_bench", all[1].Source)
	assert.Equal(t, 1.23, all[0].Measurements[1].GBPerSec)
	assert.NotEqual(t, all[0].ID, all[2].ID)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	ts := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Save(sampleRun("utf8_bench", ts, 1.23)))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	latest, err := store.LoadLatest("utf8_bench")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.Timestamp.Equal(ts))
	assert.Len(t, latest.Measurements, 4)
}
