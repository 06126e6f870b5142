package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/pkg/alignment"
)

// ShareText renders the plain-text share summary of the selected matches
func ShareText(date string, reports []MatchReport, labels alignment.Labels) string {
	var b strings.Builder
	b.WriteString("竞彩足球数据分享\n")
	fmt.Fprintf(&b, "日期: %s | 场次: %d场\n", date, len(reports))

	for i, r := range reports {
		d := r.Detail
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s vs %s\n", i+1, d.HomeTeam, d.AwayTeam)
		fmt.Fprintf(&b, "   时间: %s | 联赛: %s\n", shortMatchTime(d.MatchTime), d.League)

		fmt.Fprintf(&b, "   胜平负: %s / %s / %s\n", dash(d.HadOdds.Win), dash(d.HadOdds.Draw), dash(d.HadOdds.Lose))
		if h := d.HhadOdds; !h.Win.IsZero() || !h.Draw.IsZero() || !h.Lose.IsZero() {
			fmt.Fprintf(&b, "   让球(%s): %s / %s / %s\n", signedDecimal(h.Handicap), dash(h.Win), dash(h.Draw), dash(h.Lose))
		}

		writeShareHistory(&b, "胜平负历史", d.Moneyline)
		writeShareHistory(&b, "让球历史", d.HandicapLine)

		if len(r.Rows) > 0 {
			b.WriteString("\n   赔率差值:\n")
			b.WriteString("   胜差  负差  双平差 胜正负 负正负 双平正负\n")
			for _, fr := range alignment.FormatAll(r.Rows, labels) {
				fmt.Fprintf(&b, "   %s%s%s%s%s%s\n",
					padRight(fr.WinDiff, 6),
					padRight(fr.LoseDiff, 6),
					padRight(fr.DoubleDrawDiff, 7),
					padRight(fr.WinSign, 7),
					padRight(fr.LoseSign, 7),
					fr.DoubleDrawSign,
				)
			}
		}
	}

	return b.String()
}

func writeShareHistory(b *strings.Builder, title string, series []models.OddsObservation) {
	if len(series) == 0 {
		return
	}
	fmt.Fprintf(b, "\n   %s(%d条):\n", title, len(series))
	for _, o := range series {
		fmt.Fprintf(b, "   %s  %s/%s/%s\n", shortUpdateTime(o.UpdateDate, o.UpdateTime), dash(o.Win), dash(o.Draw), dash(o.Lose))
	}
}

// shortMatchTime renders "2026-02-27 19:30:00" as "2月27日 19:30"
func shortMatchTime(value string) string {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return fmt.Sprintf("%d月%d日 %s", int(t.Month()), t.Day(), t.Format("15:04"))
		}
	}
	return value
}

// shortUpdateTime renders "2026-02-27", "09:05:30" as "2-27 09:05"
func shortUpdateTime(date, clock string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 || len(clock) < 5 {
		return strings.TrimSpace(date + " " + clock)
	}
	month := strings.TrimLeft(parts[1], "0")
	return fmt.Sprintf("%s-%s %s", month, parts[2], clock[:5])
}

func dash(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return d.StringFixed(2)
}

// padRight pads s with spaces to n characters
func padRight(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}
