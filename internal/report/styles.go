package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	headerFill    = "4472C4"
	altRowFill    = "D9E2F3"
	sectionFill   = "BDD7EE"
	sectionColor  = "1F4E79"
	negativeFill  = "FCE4D6"
	negativeColor = "C00000"
)

// styles holds the style ids registered on one workbook
type styles struct {
	header   int
	data     int
	dataAlt  int
	negative int
	section  int
	label    int
	bordered int
	group    int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

func newStyles(f *excelize.File) (*styles, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	s := &styles{}
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
			Fill:      solid(headerFill),
			Alignment: center,
			Border:    thinBorder(),
		}},
		{&s.data, &excelize.Style{Alignment: center, Border: thinBorder()}},
		{&s.dataAlt, &excelize.Style{Alignment: center, Border: thinBorder(), Fill: solid(altRowFill)}},
		{&s.negative, &excelize.Style{
			Font:      &excelize.Font{Color: negativeColor},
			Alignment: center,
			Border:    thinBorder(),
			Fill:      solid(negativeFill),
		}},
		{&s.section, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 11, Color: sectionColor},
			Fill: solid(sectionFill),
		}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: thinBorder()}},
		{&s.bordered, &excelize.Style{Border: thinBorder()}},
		{&s.group, &excelize.Style{Font: &excelize.Font{Bold: true, Italic: true}}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("failed to register style: %w", err)
		}
		*d.id = id
	}
	return s, nil
}

// row returns the data style of the i-th row of a table
func (s *styles) row(alt bool) int {
	if alt {
		return s.dataAlt
	}
	return s.data
}
