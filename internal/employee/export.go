package employee

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const ExportSheet = "Mitarbeitende"

var exportHeader = []interface{}{
	"Nachname", "Vorname", "Geburtsdatum", "Personalnummer", "Status",
	"Staatsangehörigkeit", "E-Mail", "Telefon", "Aufenthaltstitel-Nr.",
	"Gültig ab", "Gültig bis", "Ausstellende Behörde", "Dokumente",
}

// WriteWorkbook renders employees as an XLSX workbook with one sheet.
func WriteWorkbook(w io.Writer, employees []*Employee) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, 1, exportHeader); err != nil {
		return err
	}
	for i, e := range employees {
		row := []interface{}{
			e.LastName,
			e.FirstName,
			e.Birthdate.String(),
			deref(e.EmployeeNumber),
			e.Status,
			deref(e.Nationality),
			deref(e.Email),
			deref(e.Phone),
			deref(e.PermitNumber),
			dateCell(e.ValidFrom),
			dateCell(e.ValidUntil),
			deref(e.IssuingAuthority),
			len(e.DocumentURLs),
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func (s *Service) Export(ctx context.Context, userID string, w io.Writer) error {
	employees, err := s.List(ctx, userID, ListFilter{})
	if err != nil {
		return err
	}
	if err := WriteWorkbook(w, employees); err != nil {
		s.logger.Error("failed to write employee export", "user_id", userID, "error", err)
		return fmt.Errorf("export employees: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateCell(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
