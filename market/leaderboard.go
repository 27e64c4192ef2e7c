package market

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Standing is one account's result in its own currency. ROI comes from the
// statistics aggregator; it is currency independent and is not recomputed
// here.
type Standing struct {
	Account   string
	Currency  string
	NetProfit decimal.Decimal
	Balance   decimal.Decimal
	ROI       float64
	Trades    int
}

// LeaderboardRow is a Standing converted to USD.
type LeaderboardRow struct {
	Rank         int             `json:"rank"`
	Account      string          `json:"account"`
	Currency     string          `json:"currency"`
	NetProfitUSD decimal.Decimal `json:"netProfitUsd"`
	BalanceUSD   decimal.Decimal `json:"balanceUsd"`
	ROI          float64         `json:"roi"`
	Trades       int             `json:"trades"`
}

// Leaderboard always carries the USD disclaimer.
type Leaderboard struct {
	Rows       []LeaderboardRow `json:"rows"`
	Disclaimer string           `json:"disclaimer"`
}

// NormalizeLeaderboard converts every standing to USD and ranks by
// normalized net profit, then ROI, then account name. The input is not
// modified.
func NormalizeLeaderboard(standings []Standing) Leaderboard {
	rows := make([]LeaderboardRow, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, LeaderboardRow{
			Account:      s.Account,
			Currency:     NormalizeCode(s.Currency),
			NetProfitUSD: ConvertToUSD(s.NetProfit, s.Currency),
			BalanceUSD:   ConvertToUSD(s.Balance, s.Currency),
			ROI:          s.ROI,
			Trades:       s.Trades,
		})
	}

	slices.SortStableFunc(rows, func(a, b LeaderboardRow) int {
		if c := b.NetProfitUSD.Cmp(a.NetProfitUSD); c != 0 {
			return c
		}
		if c := cmp.Compare(b.ROI, a.ROI); c != 0 {
			return c
		}
		return cmp.Compare(a.Account, b.Account)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return Leaderboard{Rows: rows, Disclaimer: USDDisclaimer}
}
