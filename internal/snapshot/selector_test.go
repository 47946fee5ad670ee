package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

func fp(v float64) *float64 { return &v }

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func periodAt(daysAgo int) *contracts.FinancialPeriod {
	return &contracts.FinancialPeriod{
		Date:   testNow.AddDate(0, 0, -daysAgo),
		Source: contracts.SourceQuarterly,
	}
}

func TestResolveBalances(t *testing.T) {
	t.Run("direct fields", func(t *testing.T) {
		p := periodAt(10)
		p.CurrentAssets = fp(500)
		p.TotalLiabilities = fp(300)

		ca, tl := ResolveBalances(p)
		require.NotNil(t, ca)
		require.NotNil(t, tl)
		assert.Equal(t, 500.0, *ca)
		assert.Equal(t, 300.0, *tl)
	})

	t.Run("current assets from working capital", func(t *testing.T) {
		// CL = TL - NCL = 200, CA = WC + CL = 350
		p := periodAt(10)
		p.WorkingCapital = fp(150)
		p.TotalLiabilities = fp(500)
		p.NonCurrentLiabilities = fp(300)

		ca, tl := ResolveBalances(p)
		require.NotNil(t, ca)
		require.NotNil(t, tl)
		assert.Equal(t, 350.0, *ca)
		assert.Equal(t, 500.0, *tl)
	})

	t.Run("current assets from asset split", func(t *testing.T) {
		p := periodAt(10)
		p.TotalAssets = fp(800)
		p.NonCurrentAssets = fp(300)
		p.TotalLiabilities = fp(400)

		ca, tl := ResolveBalances(p)
		require.NotNil(t, ca)
		assert.Equal(t, 500.0, *ca)
		assert.Equal(t, 400.0, *tl)
	})

	t.Run("total liabilities from parts", func(t *testing.T) {
		p := periodAt(10)
		p.CurrentAssets = fp(500)
		p.CurrentLiabilities = fp(100)
		p.NonCurrentLiabilities = fp(200)

		ca, tl := ResolveBalances(p)
		require.NotNil(t, ca)
		require.NotNil(t, tl)
		assert.Equal(t, 300.0, *tl)
	})

	t.Run("too sparse", func(t *testing.T) {
		p := periodAt(10)
		p.Cash = fp(50)

		ca, tl := ResolveBalances(p)
		assert.Nil(t, ca)
		assert.Nil(t, tl)
	})

	t.Run("nil period", func(t *testing.T) {
		ca, tl := ResolveBalances(nil)
		assert.Nil(t, ca)
		assert.Nil(t, tl)
	})
}

func TestSelect(t *testing.T) {
	t.Run("no shares", func(t *testing.T) {
		sel, note := Select(contracts.PeriodTimeline{periodAt(10)}, nil, testNow, 730)
		assert.Nil(t, sel)
		require.NotNil(t, note)
		assert.Equal(t, NoteNoShares, *note)

		sel, note = Select(contracts.PeriodTimeline{periodAt(10)}, fp(0), testNow, 730)
		assert.Nil(t, sel)
		require.NotNil(t, note)
		assert.Equal(t, NoteNoShares, *note)
	})

	t.Run("newest viable wins", func(t *testing.T) {
		incomplete := periodAt(30) // newest but unusable
		incomplete.Cash = fp(10)

		viable := periodAt(120)
		viable.CurrentAssets = fp(500)
		viable.TotalLiabilities = fp(300)

		older := periodAt(400)
		older.CurrentAssets = fp(600)
		older.TotalLiabilities = fp(200)

		sel, note := Select(contracts.PeriodTimeline{incomplete, viable, older}, fp(100), testNow, 730)
		require.Nil(t, note)
		require.NotNil(t, sel)
		assert.Equal(t, viable, sel.Period)
		assert.Equal(t, 500.0, sel.CurrentAssets)
		assert.Equal(t, 300.0, sel.TotalLiab)
		assert.Equal(t, 200.0, sel.NCAV)
		assert.InDelta(t, 2.0, sel.NCAVPerShare, 1e-9)
	})

	t.Run("stale periods are skipped", func(t *testing.T) {
		old := periodAt(800)
		old.CurrentAssets = fp(500)
		old.TotalLiabilities = fp(300)

		sel, note := Select(contracts.PeriodTimeline{old}, fp(100), testNow, 730)
		assert.Nil(t, sel)
		require.NotNil(t, note)
		assert.Contains(t, *note, "no viable FS column")
	})

	t.Run("derivation fallback still selects", func(t *testing.T) {
		p := periodAt(60)
		p.WorkingCapital = fp(200)
		p.TotalLiabilities = fp(400)
		p.NonCurrentLiabilities = fp(250)

		sel, note := Select(contracts.PeriodTimeline{p}, fp(50), testNow, 730)
		require.Nil(t, note)
		require.NotNil(t, sel)
		// CL = 150, CA = 350, NCAV = -50
		assert.Equal(t, -50.0, sel.NCAV)
		assert.InDelta(t, -1.0, sel.NCAVPerShare, 1e-9)
	})

	t.Run("deterministic for fixed now", func(t *testing.T) {
		a := periodAt(60)
		a.CurrentAssets = fp(500)
		a.TotalLiabilities = fp(300)
		b := periodAt(150)
		b.CurrentAssets = fp(450)
		b.TotalLiabilities = fp(280)
		timeline := contracts.PeriodTimeline{a, b}

		first, _ := Select(timeline, fp(100), testNow, 730)
		second, _ := Select(timeline, fp(100), testNow, 730)
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.Period, second.Period)
		assert.Equal(t, first.NCAVPerShare, second.NCAVPerShare)
	})

	t.Run("empty timeline", func(t *testing.T) {
		sel, note := Select(nil, fp(100), testNow, 730)
		assert.Nil(t, sel)
		require.NotNil(t, note)
		assert.Contains(t, *note, "no viable FS column")
	})
}
