package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"EUR/USD", "eur_usd", "EURUSD", " eur-usd "} {
		assert.Equal(t, "EURUSD", Symbol(in))
	}
	_, ok := Lookup("xau/usd")
	assert.True(t, ok)
	_, ok = Lookup("NAS100")
	assert.False(t, ok)
}

func TestPips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		instrument  string
		entry, exit string
		long        bool
		want        int
	}{
		{"eurusd long win", "EURUSD", "1.08500", "1.08750", true, 25},
		{"eurusd short win", "EUR/USD", "1.08750", "1.08500", false, 25},
		{"usdjpy long loss", "USDJPY", "150.25", "150.00", true, -25},
		{"gold long", "XAUUSD", "2300.50", "2310.00", true, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pips(tt.instrument, d(tt.entry), d(tt.exit), tt.long)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Pips("NAS100", d("1"), d("2"), true)
	assert.False(t, ok)
}
