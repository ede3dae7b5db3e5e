package services

import (
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextProtocolFormatAndIncrement(t *testing.T) {
	database := setupTestDB(t)
	day := time.Date(2025, 11, 22, 10, 0, 0, 0, time.UTC)

	tx := database.Begin()
	require.NoError(t, tx.Error)

	first, err := NextProtocol(tx, day)
	require.NoError(t, err)
	assert.Equal(t, "SOL-20251122-0001", first)

	second, err := NextProtocol(tx, day)
	require.NoError(t, err)
	assert.Equal(t, "SOL-20251122-0002", second)

	require.NoError(t, tx.Commit().Error)
}

func TestNextProtocolRollsOverAtDateBoundary(t *testing.T) {
	database := setupTestDB(t)

	tx := database.Begin()
	require.NoError(t, tx.Error)

	day1 := time.Date(2025, 11, 22, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2025, 11, 23, 0, 1, 0, 0, time.UTC)

	_, err := NextProtocol(tx, day1)
	require.NoError(t, err)
	_, err = NextProtocol(tx, day1)
	require.NoError(t, err)

	fresh, err := NextProtocol(tx, day2)
	require.NoError(t, err)
	assert.Equal(t, "SOL-20251123-0001", fresh, "novo dia recomeça do contador 1")

	require.NoError(t, tx.Commit().Error)
}

func TestNextProtocolConcurrentCallersGetDistinctValues(t *testing.T) {
	database := setupTestDB(t)
	day := time.Date(2025, 11, 22, 12, 0, 0, 0, time.UTC)

	const callers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		protocols = map[string]bool{}
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx := database.Begin()
			if tx.Error != nil {
				t.Error(tx.Error)
				return
			}
			protocol, err := NextProtocol(tx, day)
			if err != nil {
				tx.Rollback()
				t.Error(err)
				return
			}
			if err := tx.Commit().Error; err != nil {
				t.Error(err)
				return
			}

			mu.Lock()
			protocols[protocol] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, protocols, callers, "todos os protocolos devem ser distintos")

	pattern := regexp.MustCompile(`^SOL-20251122-\d{4}$`)
	for protocol := range protocols {
		assert.True(t, pattern.MatchString(protocol), fmt.Sprintf("protocolo fora do formato: %s", protocol))
	}
}
