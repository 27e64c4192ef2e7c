package stats

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/pkg/money"
)

// Report is an account summary ready to render.
type Report struct {
	Account   string
	Generated time.Time
	Balance   journal.BalanceConfig
	Stats     Stats
	Groups    []Group
	GroupedBy string
}

// NewReport aggregates entries into a report. groupBy names one of
// Groupings; empty means no breakdown.
func NewReport(account string, entries []journal.TradeEntry, bal journal.BalanceConfig, groupBy string, now time.Time) (Report, error) {
	r := Report{
		Account:   account,
		Generated: now,
		Balance:   bal,
		Stats:     Compute(entries, bal),
		GroupedBy: groupBy,
	}
	if groupBy != "" {
		key, ok := Groupings[groupBy]
		if !ok {
			return Report{}, fmt.Errorf("unknown grouping %q", groupBy)
		}
		r.Groups = GroupBy(entries, bal, key)
	}
	return r, nil
}

var reportFuncs = template.FuncMap{
	"money": func(d decimal.Decimal, cur string) string { return money.Format(d, cur) },
	"pf": func(x float64) string {
		if x == ProfitFactorSentinel {
			return "∞"
		}
		return fmt.Sprintf("%.2f", x)
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(ReportOrgTemplate))

// WriteOrg renders r as an Org-mode document.
func WriteOrg(w io.Writer, r Report) error {
	return reportTmpl.Execute(w, r)
}

const ReportOrgTemplate = `* JOURNAL: {{.Account}}
:PROPERTIES:
:CURRENCY:    {{.Balance.Currency}}
:START_BAL:   {{money .Balance.Initial .Balance.Currency}}
:CURRENT_BAL: {{money .Balance.Current .Balance.Currency}}
:NET_PL:      {{money .Stats.NetProfit .Balance.Currency}}
:ROI_PCT:     {{printf "%.2f" .Stats.ROI}}
:TRADES:      {{.Stats.TotalTrades}}
:WIN_RATE:    {{.Stats.WinRate}}
:PROFIT_FAC:  {{pf .Stats.ProfitFactor}}
:MAX_DD_PCT:  {{printf "%.2f" .Stats.MaxDrawdownPct}}
:CREATED:     [{{.Generated.Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Stats.NetProfit .Balance.Currency}}*
- Average P/L:      *{{money .Stats.AvgProfit .Balance.Currency}}*
- Return:           *{{printf "%.2f" .Stats.ROI}}%*
- Win Rate:         *{{.Stats.WinRate}}%*
- Profit Factor:    *{{pf .Stats.ProfitFactor}}*
- Largest Win:      *{{money .Stats.LargestWin .Balance.Currency}}*
- Largest Loss:     *{{money .Stats.LargestLoss .Balance.Currency}}*
- Pips:             *{{.Stats.TotalPips}} (avg {{.Stats.AvgPips}})*
- Max Drawdown:     *{{printf "%.2f" .Stats.MaxDrawdownPct}}%*

** Trade Distribution
| Outcome    | Count |
|------------+-------|
| Wins       | {{.Stats.Wins}} |
| Losses     | {{.Stats.Losses}} |
| Break even | {{.Stats.BreakEven}} |
| Total      | {{.Stats.TotalTrades}} |
| Best run   | {{.Stats.MaxConsecutiveWins}} |
| Worst run  | {{.Stats.MaxConsecutiveLosses}} |
{{- if .Groups }}

** By {{.GroupedBy}}
| Key | Trades | Win % | Net P/L | PF |
|-----+--------+-------+---------+----|
{{- range .Groups }}
| {{.Key}} | {{.Stats.TotalTrades}} | {{.Stats.WinRate}} | {{money .Stats.NetProfit $.Balance.Currency}} | {{pf .Stats.ProfitFactor}} |
{{- end }}
{{- end }}
`
