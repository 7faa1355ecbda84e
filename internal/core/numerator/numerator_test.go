package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
)

func TestConfig_Format(t *testing.T) {
	period := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "CIE-2026-00007", DefaultConfig(PrefixClosure).Format(period, 7))
	assert.Equal(t, "V-000042", Config{Prefix: "V", PadWidth: 6}.Format(period, 42))
}

func TestConfig_Key(t *testing.T) {
	period := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "V_2026", DefaultConfig("V").Key(period))
	assert.Equal(t, "V_2026_03", Config{Prefix: "V", ResetPeriod: "month"}.Key(period))
	assert.Equal(t, "V", Config{Prefix: "V", ResetPeriod: "never"}.Key(period))
}

func TestMemory_SequencesArePerCompany(t *testing.T) {
	ctx := context.Background()
	gen := NewMemory()
	period := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	a, b := id.New(), id.New()

	first, err := gen.Next(ctx, a, DefaultConfig(PrefixSale), period)
	require.NoError(t, err)
	second, err := gen.Next(ctx, a, DefaultConfig(PrefixSale), period)
	require.NoError(t, err)
	other, err := gen.Next(ctx, b, DefaultConfig(PrefixSale), period)
	require.NoError(t, err)

	assert.Equal(t, "V-2026-00001", first)
	assert.Equal(t, "V-2026-00002", second)
	assert.Equal(t, "V-2026-00001", other)
}
