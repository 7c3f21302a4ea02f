package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wardenlabs/inquest/pkg/utils"
)

func TestTTLMap(t *testing.T) {
	t.Parallel()

	ttl := 100 * time.Millisecond
	m := utils.NewTTLMap[string, int](ttl)

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		m.Set("mod:501", 1)

		value, exists := m.Get("mod:501")
		assert.True(t, exists)
		assert.Equal(t, 1, value)
	})

	t.Run("expired entries are gone", func(t *testing.T) {
		t.Parallel()

		m.Set("mod:502", 2)
		time.Sleep(ttl + 50*time.Millisecond)

		_, exists := m.Get("mod:502")
		assert.False(t, exists)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		m.Set("mod:503", 3)
		m.Delete("mod:503")

		_, exists := m.Get("mod:503")
		assert.False(t, exists)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, exists := m.Get("addr:10.0.0.1")
		assert.False(t, exists)
	})

	t.Run("set refreshes value and expiry", func(t *testing.T) {
		t.Parallel()

		m.Set("mod:504", 4)
		time.Sleep(ttl / 2)
		m.Set("mod:504", 44)
		time.Sleep(ttl / 2)

		// Halfway past the original deadline but within the refreshed one
		value, exists := m.Get("mod:504")
		assert.True(t, exists)
		assert.Equal(t, 44, value)
	})
}

func TestTTLMapLen(t *testing.T) {
	t.Parallel()

	m := utils.NewTTLMap[string, string](50 * time.Millisecond)
	m.Set("a", "x")
	m.Set("b", "y")
	assert.Equal(t, 2, m.Len())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, m.Len())
}

func TestTTLMapConcurrent(t *testing.T) {
	t.Parallel()

	m := utils.NewTTLMap[string, int](100 * time.Millisecond)
	done := make(chan struct{})

	go func() {
		for i := range 100 {
			m.Set("key", i)
		}

		done <- struct{}{}
	}()

	go func() {
		for range 100 {
			m.Get("key")
		}

		done <- struct{}{}
	}()

	<-done
	<-done
}
