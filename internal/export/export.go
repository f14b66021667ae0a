// Package export renders the organization list as a spreadsheet.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"orgadmin/internal/models"
)

const (
	SheetName   = "Organizations"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var OrganizationsHeader = []string{
	"S. No",
	"Organization",
	"Contact Name",
	"Contact Email",
	"Contact Phone",
	"License From",
	"License To",
	"Max Coordinators",
	"Timezone",
	"Language",
	"Website URL",
	"Status",
	"Created At",
}

var columnWidths = []float64{8, 30, 22, 28, 18, 14, 14, 16, 18, 12, 30, 10, 22}

func dateCell(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func organizationRow(i int, o models.Organization) []any {
	return []any{
		i + 1,
		o.Name,
		o.ContactName,
		o.ContactEmail,
		o.ContactPhone,
		dateCell(o.LicenseFrom),
		dateCell(o.LicenseTo),
		o.MaxCoordinators,
		string(o.Timezone),
		string(o.Language),
		o.WebsiteURL,
		string(o.Status),
		o.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// Organizations writes a workbook with a bold header row followed by one row
// per organization in the given order.
func Organizations(orgs []models.Organization) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("export.Organizations: could not create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("export.Organizations: could not create header style: %w", err)
	}

	header := make([]any, len(OrganizationsHeader))
	for i, h := range OrganizationsHeader {
		header[i] = h
	}
	err = f.SetSheetRow(SheetName, "A1", &header)
	if err != nil {
		return nil, fmt.Errorf("export.Organizations: could not write header: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(OrganizationsHeader), 1)
	if err != nil {
		return nil, fmt.Errorf("export.Organizations: %w", err)
	}
	err = f.SetCellStyle(SheetName, "A1", last, headerStyle)
	if err != nil {
		return nil, fmt.Errorf("export.Organizations: could not set header style: %w", err)
	}

	for i, o := range orgs {
		row := organizationRow(i, o)
		err = f.SetSheetRow(SheetName, "A"+strconv.Itoa(i+2), &row)
		if err != nil {
			return nil, fmt.Errorf("export.Organizations: could not write row %d: %w", i+2, err)
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("export.Organizations: %w", err)
		}
		err = f.SetColWidth(SheetName, col, col, width)
		if err != nil {
			return nil, fmt.Errorf("export.Organizations: could not set column width: %w", err)
		}
	}

	var buf *bytes.Buffer
	buf, err = f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export.Organizations: could not write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
