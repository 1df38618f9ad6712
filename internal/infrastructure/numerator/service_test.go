package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "procura/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	queryCount   int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.queryCount++

	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("PO")
	year := time.Now().Format("2006")

	num, err := svc.GetNextNumber(ctx, cfg, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%s-00001", year), num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%s-00002", year), num)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("PR")
	opts := &corenumerator.Options{
		Strategy:  corenumerator.StrategyCached,
		RangeSize: 10,
	}

	// first call reserves a range, subsequent calls come from memory
	for i := 1; i <= 10; i++ {
		num, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
		require.NoError(t, err)
		assert.Contains(t, num, fmt.Sprintf("%05d", i))
	}
	assert.Equal(t, 1, q.queryCount)

	// range exhausted, next call reserves another one
	_, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, q.queryCount)
}

func TestGetNextNumber_NoYear(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	cfg := corenumerator.Config{
		Prefix:      "VEN",
		IncludeYear: false,
		PadWidth:    3,
		ResetPeriod: "never",
	}

	num, err := svc.GetNextNumber(context.Background(), cfg, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "VEN-001", num)
}

func TestGetNextNumber_ResetPeriodKeys(t *testing.T) {
	svc := New(&mockQuerier{})
	period := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		reset string
		want  string
	}{
		{"year", "PO_2026"},
		{"month", "PO_2026_03"},
		{"never", "PO"},
	}

	for _, tt := range tests {
		cfg := corenumerator.Config{Prefix: "PO", ResetPeriod: tt.reset}
		assert.Equal(t, tt.want, svc.buildKey(cfg, period))
	}
}

func TestSetNextNumber(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	cfg := corenumerator.DefaultConfig("PO")

	err := svc.SetNextNumber(context.Background(), cfg, time.Now(), 100)
	require.NoError(t, err)
}

func TestGetNextNumber_Concurrent(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	cfg := corenumerator.DefaultConfig("PO")

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(context.Background(), cfg, nil, time.Now())
			assert.NoError(t, err)
			_, dup := seen.LoadOrStore(num, struct{}{})
			assert.False(t, dup, "duplicate number %s", num)
		}()
	}
	wg.Wait()
}
