package rentalperiod

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"drivequest-fleet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(day int) domain.Date {
	return domain.NewDate(2024, time.January, day)
}

func TestTracker_IsAvailable(t *testing.T) {
	tr := NewTracker()

	t.Run("Unknown plate", func(t *testing.T) {
		assert.True(t, tr.IsAvailable("ZZZZ99", jan(1), jan(31)))
	})

	require.True(t, tr.Book("ABCD12", jan(1), jan(10)))
	require.True(t, tr.Book("ABCD12", jan(20), jan(25)))

	tests := []struct {
		name       string
		start, end domain.Date
		expected   bool
	}{
		{"Overlaps first", jan(5), jan(6), false},
		{"Overlaps second", jan(24), jan(28), false},
		{"Spans both", jan(1), jan(31), false},
		{"Between", jan(11), jan(19), true},
		{"After", jan(26), jan(31), true},
		{"Shared start day", jan(20), jan(20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tr.IsAvailable("ABCD12", tt.start, tt.end))
		})
	}
}

func TestTracker_BookBoundaries(t *testing.T) {
	tr := NewTracker()

	require.True(t, tr.Book("ABCD12", jan(1), jan(10)))

	t.Run("Shared boundary day overlaps", func(t *testing.T) {
		before := tr.Periods("ABCD12")
		assert.False(t, tr.Book("ABCD12", jan(10), jan(12)))
		assert.Equal(t, before, tr.Periods("ABCD12"))
	})

	t.Run("Adjacent range succeeds", func(t *testing.T) {
		assert.True(t, tr.Book("ABCD12", jan(11), jan(12)))
		assert.Len(t, tr.Periods("ABCD12"), 2)
	})

	t.Run("Other plates are independent", func(t *testing.T) {
		assert.True(t, tr.Book("EFGH34", jan(1), jan(10)))
	})
}

func TestTracker_ExtendThenCancel(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.Book("ABCD12", jan(1), jan(10)))

	assert.True(t, tr.Extend("ABCD12", jan(10), jan(20)))
	assert.Equal(t, map[domain.Date]domain.Date{jan(1): jan(20)}, tr.Periods("ABCD12"))

	assert.True(t, tr.Cancel("ABCD12", jan(1)))
	assert.Empty(t, tr.Periods("ABCD12"))
	assert.True(t, tr.IsAvailable("ABCD12", jan(15), jan(31)))
}

func TestTracker_Extend(t *testing.T) {
	t.Run("No interval ends on originalEnd", func(t *testing.T) {
		tr := NewTracker()
		require.True(t, tr.Book("ABCD12", jan(1), jan(10)))
		assert.False(t, tr.Extend("ABCD12", jan(9), jan(15)))
		assert.False(t, tr.Extend("NOPE11", jan(10), jan(15)))
	})

	t.Run("Collides with next booking", func(t *testing.T) {
		tr := NewTracker()
		require.True(t, tr.Book("ABCD12", jan(1), jan(10)))
		require.True(t, tr.Book("ABCD12", jan(15), jan(20)))

		assert.False(t, tr.Extend("ABCD12", jan(10), jan(15)))
		assert.Equal(t, jan(10), tr.Periods("ABCD12")[jan(1)])

		assert.True(t, tr.Extend("ABCD12", jan(10), jan(14)))
		assert.Equal(t, jan(14), tr.Periods("ABCD12")[jan(1)])
	})

	t.Run("Shrinking", func(t *testing.T) {
		tr := NewTracker()
		require.True(t, tr.Book("ABCD12", jan(1), jan(20)))
		require.True(t, tr.Book("ABCD12", jan(25), jan(30)))

		assert.True(t, tr.Extend("ABCD12", jan(20), jan(5)))
		assert.Equal(t, map[domain.Date]domain.Date{jan(1): jan(5), jan(25): jan(30)}, tr.Periods("ABCD12"))
	})

	t.Run("Shrinking before start is refused", func(t *testing.T) {
		tr := NewTracker()
		require.True(t, tr.Book("ABCD12", jan(10), jan(20)))
		assert.False(t, tr.Extend("ABCD12", jan(20), jan(9)))
		assert.Equal(t, jan(20), tr.Periods("ABCD12")[jan(10)])
	})

	t.Run("Ambiguous end is refused", func(t *testing.T) {
		tr := NewTracker()
		require.True(t, tr.Restore("ABCD12", nil))
		// Two intervals sharing an end date can only exist if they overlap,
		// so build the state through a restore of one and a direct set.
		tr.sets["ABCD12"].periods[jan(1)] = jan(10)
		tr.sets["ABCD12"].periods[jan(5)] = jan(10)

		_, n := tr.EndingOn("ABCD12", jan(10))
		assert.Equal(t, 2, n)
		assert.False(t, tr.Extend("ABCD12", jan(10), jan(12)))
	})
}

func TestTracker_Cancel(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.Cancel("ABCD12", jan(1)))

	require.True(t, tr.Book("ABCD12", jan(1), jan(3)))
	assert.False(t, tr.Cancel("ABCD12", jan(2)))
	assert.True(t, tr.Cancel("ABCD12", jan(1)))
	assert.False(t, tr.Cancel("ABCD12", jan(1)))
}

func TestTracker_PeriodsIsACopy(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.Book("ABCD12", jan(1), jan(3)))

	got := tr.Periods("ABCD12")
	got[jan(1)] = jan(31)
	delete(got, jan(1))
	got[jan(5)] = jan(6)

	assert.Equal(t, map[domain.Date]domain.Date{jan(1): jan(3)}, tr.Periods("ABCD12"))
	assert.NotNil(t, tr.Periods("UNKN00"))
}

func TestTracker_ForgetRestoreSnapshot(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.Book("ABCD12", jan(1), jan(3)))
	require.True(t, tr.Book("EFGH34", jan(5), jan(6)))

	snap := tr.Snapshot()
	assert.Len(t, snap, 2)

	tr.Forget("ABCD12")
	assert.Empty(t, tr.Periods("ABCD12"))
	assert.Len(t, snap["ABCD12"], 1, "snapshot must not follow later mutations")
	assert.Len(t, tr.Snapshot(), 1)

	t.Run("Restore", func(t *testing.T) {
		ok := tr.Restore("ABCD12", []domain.RentalPeriod{
			{Start: jan(1), End: jan(2)},
			{Start: jan(3), End: jan(4)},
		})
		assert.True(t, ok)
		assert.Len(t, tr.Periods("ABCD12"), 2)
	})

	t.Run("Restore rejects overlapping input", func(t *testing.T) {
		ok := tr.Restore("ABCD12", []domain.RentalPeriod{
			{Start: jan(1), End: jan(5)},
			{Start: jan(5), End: jan(6)},
		})
		assert.False(t, ok)
		assert.Len(t, tr.Periods("ABCD12"), 2)
	})

	t.Run("Restore rejects inverted input", func(t *testing.T) {
		assert.False(t, tr.Restore("ABCD12", []domain.RentalPeriod{{Start: jan(5), End: jan(1)}}))
	})
}

func TestTracker_ConcurrentBookings(t *testing.T) {
	tr := NewTracker()

	const workers = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if tr.Book("ABCD12", jan(1), jan(10)) {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Len(t, tr.Periods("ABCD12"), 1)
}

func TestTracker_ConcurrentDisjointBookings(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for day := 1; day <= 28; day++ {
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			assert.True(t, tr.Book("ABCD12", jan(d), jan(d)))
			_ = tr.IsAvailable("ABCD12", jan(1), jan(31))
			_ = tr.Snapshot()
		}(day)
	}
	wg.Wait()

	assert.Len(t, tr.Periods("ABCD12"), 28)
	assert.False(t, tr.IsAvailable("ABCD12", jan(14), jan(14)))
	assert.True(t, tr.IsAvailable("ABCD12", jan(29), jan(31)))
}
