package repositories

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseLockKey(t *testing.T) {
	// Stable for the same pair.
	assert.Equal(t, purchaseLockKey(1, 10), purchaseLockKey(1, 10))

	// Order matters: (user, section) and (section, user) are different locks.
	assert.NotEqual(t, purchaseLockKey(1, 10), purchaseLockKey(10, 1))
	assert.NotEqual(t, purchaseLockKey(1, 10), purchaseLockKey(1, 11))

	// Ids beyond int4 range must still produce a usable bigint key.
	big := int64(math.MaxInt32) + 1
	assert.NotPanics(t, func() { purchaseLockKey(big, big) })
	assert.NotEqual(t, purchaseLockKey(big, 1), purchaseLockKey(big, 2))
}
