package stats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rustyeddy/tradelog/journal"
)

// Group is the aggregate of the trades that share a key.
type Group struct {
	Key   string `json:"key"`
	Stats Stats  `json:"stats"`
}

// KeyFunc partitions trades.
type KeyFunc func(journal.TradeEntry) string

// Unspecified labels trades with an empty key.
const Unspecified = "Unspecified"

// GroupBy partitions entries by key and aggregates each partition. Groups
// are sorted by key; entries keep their relative order inside a group. ROI
// of a group is its net profit over the account's initial balance.
func GroupBy(entries []journal.TradeEntry, bal journal.BalanceConfig, key KeyFunc) []Group {
	parts := make(map[string][]journal.TradeEntry)
	for _, e := range entries {
		k := key(e)
		if k == "" {
			k = Unspecified
		}
		parts[k] = append(parts[k], e)
	}

	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Group, 0, len(keys))
	for _, k := range keys {
		out = append(out, Group{Key: k, Stats: aggregate(parts[k], bal.Initial)})
	}
	return out
}

// Month keys a trade by calendar month, e.g. "2024-05".
func Month(e journal.TradeEntry) string { return e.Date.Format("2006-01") }

// Instrument keys a trade by its upper-cased instrument.
func Instrument(e journal.TradeEntry) string {
	return strings.ToUpper(strings.TrimSpace(e.Instrument))
}

// Strategy keys a trade by strategy name.
func Strategy(e journal.TradeEntry) string { return strings.TrimSpace(e.Strategy) }

// Type keys a trade by side.
func Type(e journal.TradeEntry) string { return e.Type.String() }

// HourBucket keys a trade by the 6-hour window of the day it was taken in,
// using the trade's own clock: "00-06", "06-12", "12-18" or "18-24".
func HourBucket(e journal.TradeEntry) string {
	start := e.Date.Hour() / 6 * 6
	return fmt.Sprintf("%02d-%02d", start, start+6)
}

func ByMonth(entries []journal.TradeEntry, bal journal.BalanceConfig) []Group {
	return GroupBy(entries, bal, Month)
}

func ByInstrument(entries []journal.TradeEntry, bal journal.BalanceConfig) []Group {
	return GroupBy(entries, bal, Instrument)
}

func ByStrategy(entries []journal.TradeEntry, bal journal.BalanceConfig) []Group {
	return GroupBy(entries, bal, Strategy)
}

func ByHourBucket(entries []journal.TradeEntry, bal journal.BalanceConfig) []Group {
	return GroupBy(entries, bal, HourBucket)
}

func ByType(entries []journal.TradeEntry, bal journal.BalanceConfig) []Group {
	return GroupBy(entries, bal, Type)
}

// Groupings maps the names accepted on the command line to key functions.
var Groupings = map[string]KeyFunc{
	"month":      Month,
	"instrument": Instrument,
	"strategy":   Strategy,
	"hour":       HourBucket,
	"type":       Type,
}

// Best returns the group with the highest net profit, ties going to the
// earlier key. ok is false when there are no groups.
func Best(groups []Group) (g Group, ok bool) {
	for i, c := range groups {
		if i == 0 || c.Stats.NetProfit.GreaterThan(g.Stats.NetProfit) {
			g, ok = c, true
		}
	}
	return g, ok
}
