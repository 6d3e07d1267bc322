package service

import (
	"context"
	"fmt"
	"time"

	"safarinova/internal/authz"
	"safarinova/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeader = []string{
	"ID", "Owner", "Destination", "Start", "End",
	"Travellers", "Total price", "Tier", "Status", "Created",
}

// Export renders every booking into an xlsx workbook. Admin only.
func (s *BookingService) Export(ctx context.Context, identity *models.User) ([]byte, error) {
	if err := authz.Decide(identity, authz.OpExportBookings); err != nil {
		return nil, err
	}

	bookings := s.store.AllBookings(ctx)

	f := excelize.NewFile()
	defer f.Close()

	sheetIdx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create export sheet: %w", err)
	}
	f.SetActiveSheet(sheetIdx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}

	for i, b := range bookings {
		row := []interface{}{
			b.ID,
			b.OwnerUserID,
			b.DestinationName,
			formatDate(b.TripStartDate),
			formatDate(b.TripEndDate),
			b.NumberOfTravellers,
			b.TotalPrice,
			b.PricingTier,
			b.Status,
			b.CreatedAt.Format(time.RFC3339),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write export row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize export: %w", err)
	}

	s.log.Info().Int("bookings", len(bookings)).Msg("bookings exported")
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
