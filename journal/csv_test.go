package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fillsPath := filepath.Join(dir, "fills.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(fillsPath, equityPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordFill(testFill("S1", 1)))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		SessionID:   "S1",
		Time:        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Cash:        decimal.RequireFromString("-500"),
		Equity:      decimal.RequireFromString("1.25"),
		RealizedPnL: decimal.Zero,
	}))
	require.NoError(t, j.Close())

	f, err := os.Open(fillsPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "session_id", rows[0][0])
	assert.Equal(t, "trade_id", rows[0][1])
	assert.Equal(t, "S1", rows[1][0])
	assert.Equal(t, "1", rows[1][1])
	assert.Equal(t, "BTC-USD", rows[1][4])
	assert.Equal(t, "BUY", rows[1][5])
	assert.Equal(t, "0.01", rows[1][6])
	assert.Equal(t, "50000", rows[1][7])

	e, err := os.Open(equityPath)
	require.NoError(t, err)
	defer e.Close()

	eq, err := csv.NewReader(e).ReadAll()
	require.NoError(t, err)
	require.Len(t, eq, 2)
	assert.Equal(t, "-500", eq[1][2])
	assert.Equal(t, "1.25", eq[1][3])
}
