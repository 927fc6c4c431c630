package stats

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Shutdown() })

	t.Run("RecordAnalysis", func(t *testing.T) {
		storage.RecordAnalysis(8, 0, 0, 75)
		storage.RecordAnalysis(0, 6, 2, 0)
		storage.RecordFailure()

		current := storage.GetCurrentStats()
		assert.Equal(t, 2, current.Analyses)
		assert.Equal(t, 1, current.Failures)
		assert.Equal(t, 8, current.Passed)
		assert.Equal(t, 6, current.Warnings)
		assert.Equal(t, 2, current.Errors)
		assert.Equal(t, 75, current.ScoreTotal)
		assert.InDelta(t, 37.5, current.AverageScore(), 0.001)
	})

	t.Run("Persistence", func(t *testing.T) {
		require.NoError(t, storage.save())

		storage2, err := NewStorage(tempDir)
		require.NoError(t, err)
		defer storage2.Shutdown()

		current := storage2.GetCurrentStats()
		assert.Equal(t, 2, current.Analyses)
		assert.Equal(t, 75, current.ScoreTotal)
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := monthKey(time.Now(), -3)
		previousMonth := monthKey(time.Now(), -1)
		storage.mutex.Lock()
		storage.stats[oldMonth] = &MonthlyStats{Analyses: 100}
		storage.stats[previousMonth] = &MonthlyStats{Analyses: 10}
		storage.mutex.Unlock()

		storage.Cleanup(2)

		_, exists := storage.GetMonthlyStats(oldMonth)
		assert.False(t, exists, "old stats should have been cleaned up")
		_, exists = storage.GetMonthlyStats(previousMonth)
		assert.True(t, exists, "previous month should be retained")
		assert.Equal(t, []string{monthKey(time.Now(), 0), previousMonth}, storage.GetAllMonths())
	})

	t.Run("FileSize", func(t *testing.T) {
		require.NoError(t, storage.save())

		info, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		require.NoError(t, err)
		assert.Less(t, info.Size(), int64(1024))
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		before := storage.GetCurrentStats()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					storage.RecordAnalysis(1, 1, 1, 10)
					storage.GetCurrentStats()
				}
			}()
		}
		wg.Wait()

		after := storage.GetCurrentStats()
		assert.Equal(t, before.Analyses+1000, after.Analyses)
		assert.Equal(t, before.ScoreTotal+10000, after.ScoreTotal)
	})
}

func TestShutdownPersists(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir)
	require.NoError(t, err)

	storage.RecordAnalysis(3, 4, 1, 42)
	require.NoError(t, storage.Shutdown())
	require.NoError(t, storage.Shutdown(), "shutdown should be idempotent")

	reloaded, err := NewStorage(tempDir)
	require.NoError(t, err)
	defer reloaded.Shutdown()

	assert.Equal(t, 42, reloaded.GetCurrentStats().ScoreTotal)
}

func TestNewStorageRejectsCorruptFile(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "stats.json"), []byte("{not json"), 0644))

	_, err := NewStorage(tempDir)
	assert.Error(t, err)
}
