// Package export renders repair submissions as spreadsheets for merchants.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"repairdesk/internal/models"
)

// SheetName is the worksheet holding exported submissions.
const SheetName = "Submissions"

// ContentType is the MIME type of the workbook returned by Submissions.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []string{
	"id", "created_at", "name", "email", "phone", "problem", "address", "preferred_date",
	"device_category", "series_name", "model_name", "injury_name", "device_sku", "device_guid",
	"price", "shop", "source", "ip", "user_agent",
}

// Submissions writes one header row and one row per submission, in the
// order given, and returns the workbook bytes.
func Submissions(subs []models.Submission) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	xl.SetSheetName(xl.GetSheetName(0), SheetName)
	if err := xl.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, s := range subs {
		preferred := ""
		if s.PreferredDate != nil {
			preferred = s.PreferredDate.UTC().Format("2006-01-02")
		}
		record := []string{
			s.ID,
			s.CreatedAt.UTC().Format(time.RFC3339),
			s.Name,
			s.Email,
			s.Phone,
			s.Problem,
			s.Address,
			preferred,
			s.DeviceCategory,
			s.SeriesName,
			s.ModelName,
			s.InjuryName,
			s.DeviceSKU,
			s.DeviceGUID,
			string(s.Price),
			s.Shop,
			s.Source,
			s.IP,
			s.UserAgent,
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := xl.SetSheetRow(SheetName, cellRef, &record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
