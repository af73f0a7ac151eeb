// Package export renders a processed report as a spreadsheet. Totals are
// written as live formulas so manual edits to the delete-flag column
// recompute them inside the file, without rerunning the pipeline.
package export

import (
	"fmt"
	"io"

	"vendas-report/aggregate"
	"vendas-report/processor"

	"github.com/xuri/excelize/v2"
)

// DeleteMarker is the affirmative value of the delete-flag column: a row
// marked with it contributes zero to the recomputed totals.
const DeleteMarker = "sim"

const (
	sheetOrders        = "Lancamentos"
	sheetRegistrations = "Mesas"
	sheetDeletions     = "Deletados"
	sheetSummary       = "Geral"
	sheetRanking       = "Ranking"
)

// Write streams the xlsx workbook for a report.
func Write(report *processor.Report, w io.Writer) error {
	f, err := Workbook(report)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Workbook builds the five-sheet xlsx file.
func Workbook(report *processor.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeOrdersSheet(f, report); err != nil {
		return nil, err
	}
	if err := writeRegistrationsSheet(f, report); err != nil {
		return nil, err
	}
	if err := writeDeletionsSheet(f, report); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, report); err != nil {
		return nil, err
	}
	if err := writeRankingSheet(f, report); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(sheetOrders)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

// writeOrdersSheet lays the orders out with "valor total" as a per-row
// formula: zero when the delete flag holds the affirmative marker, else
// quantity times unit price.
func writeOrdersSheet(f *excelize.File, report *processor.Report) error {
	if _, err := f.NewSheet(sheetOrders); err != nil {
		return err
	}
	header := []interface{}{
		"Nº", "request", "response", "produto", "Qtde", "Data", "Hora",
		"deletar", "valor unitario", "valor total", "mesa", "arquivo_origem",
	}
	if err := f.SetSheetRow(sheetOrders, "A1", &header); err != nil {
		return err
	}

	for i, o := range report.Dataset.Orders {
		row := i + 2
		cells := []interface{}{
			o.Seq, o.Request, o.Response, o.Product, o.Quantity,
			o.Date, o.TimeOfDay, o.DeleteFlag, o.UnitPrice, nil,
			o.Table, o.SourceFile,
		}
		if err := f.SetSheetRow(sheetOrders, fmt.Sprintf("A%d", row), &cells); err != nil {
			return err
		}
		formula := fmt.Sprintf(`IF(H%d="%s",0,E%d*I%d)`, row, DeleteMarker, row, row)
		if err := f.SetCellFormula(sheetOrders, fmt.Sprintf("J%d", row), formula); err != nil {
			return err
		}
	}
	return nil
}

func writeRegistrationsSheet(f *excelize.File, report *processor.Report) error {
	if _, err := f.NewSheet(sheetRegistrations); err != nil {
		return err
	}
	header := []interface{}{"mesa", "request", "response", "arquivo_origem"}
	if err := f.SetSheetRow(sheetRegistrations, "A1", &header); err != nil {
		return err
	}
	for i, reg := range report.Dataset.Registrations {
		cells := []interface{}{reg.Table, reg.Request, reg.Response, reg.SourceFile}
		if err := f.SetSheetRow(sheetRegistrations, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}

func writeDeletionsSheet(f *excelize.File, report *processor.Report) error {
	if _, err := f.NewSheet(sheetDeletions); err != nil {
		return err
	}
	header := []interface{}{"delete_id", "mesa_del_ref", "status", "request", "arquivo_origem"}
	if err := f.SetSheetRow(sheetDeletions, "A1", &header); err != nil {
		return err
	}
	for i, d := range report.Dataset.Deletions {
		cells := []interface{}{d.DeleteID, d.Table, d.Status, d.Request, d.SourceFile}
		if err := f.SetSheetRow(sheetDeletions, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}

// writeSummarySheet re-derives the totals inside the file: the total sums
// the orders sheet formula column, commission and fee reference the total
// cell.
func writeSummarySheet(f *excelize.File, report *processor.Report) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	header := []interface{}{"Valor total", "Comissão", "Taxa"}
	if err := f.SetSheetRow(sheetSummary, "A1", &header); err != nil {
		return err
	}

	if n := len(report.Dataset.Orders); n > 0 {
		total := fmt.Sprintf("SUM(%s!J2:J%d)", sheetOrders, n+1)
		if err := f.SetCellFormula(sheetSummary, "A2", total); err != nil {
			return err
		}
	} else if err := f.SetCellValue(sheetSummary, "A2", 0); err != nil {
		return err
	}

	commission := fmt.Sprintf("A2*%v", report.Config.CommissionRate)
	if report.Config.Formula == aggregate.FormulaPercentOffset {
		commission = fmt.Sprintf("(A2*%v)+%v", report.Config.CommissionRate, report.Config.CommissionOffset)
	}
	if err := f.SetCellFormula(sheetSummary, "B2", commission); err != nil {
		return err
	}
	return f.SetCellFormula(sheetSummary, "C2", fmt.Sprintf("A2*%v", report.Config.FeeRate))
}

func writeRankingSheet(f *excelize.File, report *processor.Report) error {
	if _, err := f.NewSheet(sheetRanking); err != nil {
		return err
	}
	header := []interface{}{"Posição", "mesa", "valor total"}
	if err := f.SetSheetRow(sheetRanking, "A1", &header); err != nil {
		return err
	}
	for i, rank := range report.Ranking {
		cells := []interface{}{rank.Position, rank.Table, rank.Total}
		if err := f.SetSheetRow(sheetRanking, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}
