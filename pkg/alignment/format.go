package alignment

// Labels are the strings a formatted row is rendered with
type Labels struct {
	Placeholder string
	Positive    string
	Negative    string
}

// DefaultLabels renders unavailable cells as "-" and signs as 正 / 负
var DefaultLabels = Labels{
	Placeholder: "-",
	Positive:    "正",
	Negative:    "负",
}

// FormattedRow is a delta row ready for presentation
type FormattedRow struct {
	WinDiff        string `json:"win_diff"`
	LoseDiff       string `json:"lose_diff"`
	DoubleDrawDiff string `json:"double_draw_diff"`
	WinSign        string `json:"win_sign"`
	LoseSign       string `json:"lose_sign"`
	DoubleDrawSign string `json:"double_draw_sign"`
	Negative       bool   `json:"is_negative"`
}

// Format renders row with labels
func Format(row Row, labels Labels) FormattedRow {
	return FormattedRow{
		WinDiff:        labels.value(row.Win),
		LoseDiff:       labels.value(row.Lose),
		DoubleDrawDiff: labels.value(row.DoubleDraw),
		WinSign:        labels.sign(row.Win),
		LoseSign:       labels.sign(row.Lose),
		DoubleDrawSign: labels.sign(row.DoubleDraw),
		Negative:       row.Negative(),
	}
}

// FormatAll renders rows in order
func FormatAll(rows []Row, labels Labels) []FormattedRow {
	out := make([]FormattedRow, len(rows))
	for i, row := range rows {
		out[i] = Format(row, labels)
	}
	return out
}

func (l Labels) value(d Diff) string {
	if !d.Available() {
		return l.Placeholder
	}
	return d.Value.StringFixed(diffPlaces)
}

func (l Labels) sign(d Diff) string {
	switch d.Sign {
	case SignPositive:
		return l.Positive
	case SignNegative:
		return l.Negative
	default:
		return l.Placeholder
	}
}
