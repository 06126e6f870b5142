package report

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/pkg/alignment"
)

// SummarySheet is the name of the first worksheet
const SummarySheet = "比赛汇总"

const maxSheetName = 31

var summaryHeaders = []string{
	"序号", "比赛时间", "联赛", "主队", "客队",
	"胜", "平", "负", "让球", "让胜", "让平", "让负",
}

var diffHeaders = []string{"胜的赔率的差", "负的赔率的差", "双平赔率的差", "胜差正负", "负差正负", "双平差正负"}

var hafuLabels = map[string]string{
	"win_win": "胜-胜", "win_draw": "胜-平", "win_lose": "胜-负",
	"draw_win": "平-胜", "draw_draw": "平-平", "draw_lose": "平-负",
	"lose_win": "负-胜", "lose_draw": "负-平", "lose_lose": "负-负",
}

// MatchReport is one exported match together with its aligned delta rows
type MatchReport struct {
	Detail *models.MatchDetail
	Rows   []alignment.Row
}

// Config holds report assembler configuration
type Config struct {
	OutputDir      string
	FilenamePrefix string
	Labels         alignment.Labels
}

// Assembler lays matches out as an xlsx workbook
type Assembler struct {
	outputDir string
	prefix    string
	labels    alignment.Labels
	now       func() time.Time
	logger    zerolog.Logger
}

// NewAssembler creates a new report assembler
func NewAssembler(cfg Config, logger zerolog.Logger) *Assembler {
	labels := cfg.Labels
	if labels == (alignment.Labels{}) {
		labels = alignment.DefaultLabels
	}
	prefix := cfg.FilenamePrefix
	if prefix == "" {
		prefix = "report"
	}

	return &Assembler{
		outputDir: cfg.OutputDir,
		prefix:    prefix,
		labels:    labels,
		now:       time.Now,
		logger:    logger.With().Str("component", "report_assembler").Logger(),
	}
}

// OutputDir returns the directory workbooks are written to
func (a *Assembler) OutputDir() string {
	return a.outputDir
}

// Write builds the workbook for reports and saves it in the output directory.
// It returns the bare file name.
func (a *Assembler) Write(reports []MatchReport) (string, error) {
	f, err := a.Build(reports)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	name := Filename(a.prefix, a.now())
	if err := f.SaveAs(filepath.Join(a.outputDir, name)); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	a.logger.Info().
		Str("filename", name).
		Int("match_count", len(reports)).
		Msg("wrote export workbook")

	return name, nil
}

// Build lays out the summary sheet and one detail sheet per match
func (a *Assembler) Build(reports []MatchReport) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(newSheetWriter(f, SummarySheet, st), reports); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range reports {
		name := SheetName(i+1, r.Detail.HomeTeam, r.Detail.AwayTeam)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if err := a.writeDetail(newSheetWriter(f, name, st), r); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Filename returns {prefix}_{YYYYMMDD_HHMMSS}_{8 hex}.xlsx
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", prefix, now.Format("20060102_150405"), uuid.NewString()[:8])
}

// SheetName returns the detail sheet name of the index-th match, truncated to
// the 31 characters a worksheet name may hold.
func SheetName(index int, home, away string) string {
	name := fmt.Sprintf("%d-%svs%s", index, home, away)
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)

	runes := []rune(name)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}

func writeSummary(w *sheetWriter, reports []MatchReport) error {
	w.header(summaryHeaders...)
	w.freezeHeader()

	for i, r := range reports {
		m := r.Detail.Match
		hhad := m.HhadOdds
		w.values(w.st.row((i+1)%2 == 0),
			i+1,
			m.MatchTime,
			m.League,
			m.HomeTeam,
			m.AwayTeam,
			price(m.HadOdds.Win),
			price(m.HadOdds.Draw),
			price(m.HadOdds.Lose),
			handicapLabel(hhad),
			price(hhad.Win),
			price(hhad.Draw),
			price(hhad.Lose),
		)
	}

	return w.finish()
}

func (a *Assembler) writeDetail(w *sheetWriter, r MatchReport) error {
	d := r.Detail

	w.section("基本信息", 4)
	for _, item := range [][2]string{
		{"比赛ID", d.MatchID},
		{"比赛时间", d.MatchTime},
		{"联赛", d.League},
		{"主队", d.HomeTeam},
		{"客队", d.AwayTeam},
	} {
		w.set(1, w.row, item[0], w.st.label)
		w.set(2, w.row, item[1], w.st.bordered)
		w.row++
	}
	w.row++

	w.section("胜平负赔率", 3)
	w.header("胜", "平", "负")
	w.values(w.st.data, price(d.HadOdds.Win), price(d.HadOdds.Draw), price(d.HadOdds.Lose))
	w.row++

	w.section("让球胜平负", 4)
	w.header("让球数", "胜", "平", "负")
	w.values(w.st.data, handicapLabel(d.HhadOdds), price(d.HhadOdds.Win), price(d.HhadOdds.Draw), price(d.HhadOdds.Lose))
	w.row++

	writeCorrectScore(w, d.CrsOdds)
	writeTotalGoals(w, d.TtgOdds)
	writeHalfFull(w, d.HafuOdds)

	if n := len(d.Moneyline); n > 0 {
		w.section(fmt.Sprintf("胜平负赔率变化历史（共%d条）", n), 5)
		w.header("更新日期", "更新时间", "胜", "平", "负")
		for i, o := range d.Moneyline {
			w.values(w.st.row(i%2 == 0), o.UpdateDate, o.UpdateTime, price(o.Win), price(o.Draw), price(o.Lose))
		}
		w.row++
	}

	if n := len(d.HandicapLine); n > 0 {
		first := signedDecimal(d.HandicapLine[0].Handicap)
		w.section(fmt.Sprintf("让球胜平负赔率变化历史（让%s球，共%d条）", first, n), 6)
		w.header("更新日期", "更新时间", "让球", "让胜", "让平", "让负")
		for i, o := range d.HandicapLine {
			w.values(w.st.row(i%2 == 0), o.UpdateDate, o.UpdateTime, signedDecimal(o.Handicap), price(o.Win), price(o.Draw), price(o.Lose))
		}
		w.row++
	}

	if len(r.Rows) > 0 {
		w.section("赔率差值分析", 6)
		w.header(diffHeaders...)
		for i, row := range r.Rows {
			style := w.st.row(i%2 == 1)
			if row.Negative() {
				style = w.st.negative
			}
			fr := alignment.Format(row, a.labels)
			w.values(style,
				diffValue(row.Win, a.labels),
				diffValue(row.Lose, a.labels),
				diffValue(row.DoubleDraw, a.labels),
				fr.WinSign,
				fr.LoseSign,
				fr.DoubleDrawSign,
			)
		}
	}

	return w.finish()
}

func writeCorrectScore(w *sheetWriter, crs map[string]decimal.Decimal) {
	if len(crs) == 0 {
		return
	}

	type score struct {
		key        string
		home, away int
	}
	var homeWin, draws, awayWin []score
	for key := range crs {
		h, a, ok := parseScore(key)
		if !ok {
			continue
		}
		s := score{key: key, home: h, away: a}
		switch {
		case h > a:
			homeWin = append(homeWin, s)
		case h == a:
			draws = append(draws, s)
		default:
			awayWin = append(awayWin, s)
		}
	}

	w.section("比分赔率", 4)
	for _, group := range []struct {
		name   string
		scores []score
	}{
		{"主胜", homeWin},
		{"平局", draws},
		{"客胜", awayWin},
	} {
		if len(group.scores) == 0 {
			continue
		}
		slices.SortFunc(group.scores, func(x, y score) int {
			if x.home != y.home {
				return x.home - y.home
			}
			return x.away - y.away
		})

		w.set(1, w.row, group.name, w.st.group)
		w.row++
		w.header("比分", "赔率")
		for i, s := range group.scores {
			w.values(w.st.row(i%2 == 0), s.key, price(crs[s.key]))
		}
		w.row++
	}
}

func writeTotalGoals(w *sheetWriter, ttg map[string]decimal.Decimal) {
	if len(ttg) == 0 {
		return
	}
	w.section("总进球赔率", 4)
	w.header("总进球数", "赔率")
	i := 0
	for _, key := range models.TtgKeys {
		odds, ok := ttg[key]
		if !ok {
			continue
		}
		w.values(w.st.row(i%2 == 0), key+"球", price(odds))
		i++
	}
	w.row++
}

func writeHalfFull(w *sheetWriter, hafu map[string]decimal.Decimal) {
	if len(hafu) == 0 {
		return
	}
	w.section("半全场赔率", 4)
	w.header("半场-全场", "赔率")
	i := 0
	for _, key := range models.HafuKeys {
		odds, ok := hafu[key]
		if !ok {
			continue
		}
		w.values(w.st.row(i%2 == 0), hafuLabels[key], price(odds))
		i++
	}
	w.row++
}

// price renders an unreported (zero) price as an empty cell
func price(d decimal.Decimal) any {
	if d.IsZero() {
		return ""
	}
	return d.InexactFloat64()
}

func diffValue(d alignment.Diff, labels alignment.Labels) any {
	if !d.Available() {
		return labels.Placeholder
	}
	return d.Value.InexactFloat64()
}

func signedDecimal(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}

// handicapLabel is empty when the handicap pool carries no price at all
func handicapLabel(h models.HandicapOdds) string {
	if h.Win.IsZero() && h.Draw.IsZero() && h.Lose.IsZero() && h.Handicap.IsZero() {
		return ""
	}
	return signedDecimal(h.Handicap)
}

func parseScore(key string) (int, int, bool) {
	home, away, ok := strings.Cut(key, ":")
	if !ok {
		return 0, 0, false
	}
	h, err := strconv.Atoi(home)
	if err != nil {
		return 0, 0, false
	}
	a, err := strconv.Atoi(away)
	if err != nil {
		return 0, 0, false
	}
	return h, a, true
}
