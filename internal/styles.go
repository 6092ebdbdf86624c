package internal

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const amountFormat = "#,##0.00"

func cell(col rune, row int) string {
	return fmt.Sprintf("%c%d", col, row)
}

// setAmountCell stores amount as a numeric cell holding its exact decimal text
func setAmountCell(f *excelize.File, sheet, ref string, amount decimal.Decimal) error {
	return f.SetCellDefault(sheet, ref, amount.String())
}

func fontBold() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{
			Type:  w,
			Color: "#000000",
			Style: 1,
		})
	}
	return s
}

func textAlignment(a string) *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: a,
		},
	}
}

func amountNumberFormat() *excelize.Style {
	format := amountFormat
	return &excelize.Style{
		CustomNumFmt: &format,
	}
}

func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
	}
	return ext[0]
}

// sheetStyles are the style IDs registered in one workbook
type sheetStyles struct {
	header       int
	headerAmount int
	amount       int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.header, err = f.NewStyle(mergeStyles(fontBold(), thinBorder("bottom"))); err != nil {
		return s, fmt.Errorf("creating header style: %w", err)
	}
	if s.headerAmount, err = f.NewStyle(mergeStyles(fontBold(), thinBorder("bottom"), textAlignment("right"))); err != nil {
		return s, fmt.Errorf("creating header style: %w", err)
	}
	if s.amount, err = f.NewStyle(amountNumberFormat()); err != nil {
		return s, fmt.Errorf("creating amount style: %w", err)
	}
	return s, nil
}
