// Package export renders the two persisted datasets as xlsx workbooks for
// backup download. The UI layer decides where the bytes go.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ufchem/factory-inventory/internal/domain/ledger"
	"github.com/ufchem/factory-inventory/internal/domain/masters"
)

const dateLayout = "2006-01-02"

// Ledger writes every transaction row under the persisted column header.
func Ledger(rows []ledger.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := make([]interface{}, len(ledger.Header))
	for i, h := range ledger.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, t := range rows {
		excelRow := []interface{}{
			t.Date.Format(dateLayout),
			string(t.Type),
			t.ID,
			t.PartyName,
			t.ItemName,
			t.Quantity,
			t.Unit,
			t.BatchID,
			t.MillID,
			t.Status,
			t.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("write row %s: %w", t.ID, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Masters writes every master entry under the Type,Name header.
func Masters(entries []masters.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"Type", "Name"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, e := range entries {
		excelRow := []interface{}{string(e.Category), e.Name}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
