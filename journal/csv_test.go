package journal

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	want := `"Date","Instrument","Type","Lot Size","Entry Price","Exit Price","Stop Loss","Take Profit","Pips","Profit/Loss","Balance After","Result","Risk/Reward","Strategy","Market Condition","Emotion Before","Emotion After","Notes"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVRows(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000_000)
	e := trade(day0, 50_000)
	e.Notes = `waited for "the" retest, then entered`
	e.EmotionBefore = "calm"
	e.Market = "trending"
	_, err := l.Append(e)
	require.NoError(t, err)
	_, err = l.Append(trade(day0.Add(time.Hour), -20_000))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, l.Entries()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"waited for ""the"" retest, then entered"`)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`), line)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	want := []string{
		"2024-05-01 09:00", "XAUUSD", "Buy", "0.1", "2300.5", "2310",
		"0", "0", "95", "50000", "1050000", "Win", "0", "breakout",
		"trending", "calm", "", `waited for "the" retest, then entered`,
	}
	assert.Equal(t, want, rows[1])
	assert.Equal(t, "-20000", rows[2][9])
	assert.Equal(t, "1030000", rows[2][10])
	assert.Equal(t, "Lose", rows[2][11])
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	l := newTestLedger(t, 1_000)
	_, _ = l.Append(trade(day0, 10))

	require.NoError(t, ExportCSV(path, l.Entries()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	assert.Error(t, ExportCSV(filepath.Join(t.TempDir(), "missing", "x.csv"), nil))
}
