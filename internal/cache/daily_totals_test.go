package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "daily_total:01HXYZUSER000000000000000:2025-03-09", Key("01HXYZUSER000000000000000", day))
}

func TestKeyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 3, 9, 1, 2, 3, 0, time.UTC)
	evening := time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Key("u1", morning), Key("u1", evening))
}
