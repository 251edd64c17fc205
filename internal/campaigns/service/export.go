package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"orderhub_backend/internal/campaigns/transport"
	"orderhub_backend/internal/contacts"
	"orderhub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	worklistSheet   = "Worklist"
)

var worklistHeader = []any{
	"Phone", "Name", "Address", "Status", "Last Call", "Days Since Call",
	"Last Order", "Days Since Order", "Total Orders", "Total Spent",
}

// Export writes the filtered contacts, or the selected subset of them, to an
// XLSX worklist and returns a temporary download link.
func (s *Service) Export(ctx context.Context, businessID uuid.UUID, req transport.ExportRequest) (transport.ExportResponse, error) {
	if s.exports == nil {
		return transport.ExportResponse{}, apperr.BadRequest("export storage is not configured")
	}

	criteria, err := criteriaFrom(req.ContactsQuery)
	if err != nil {
		return transport.ExportResponse{}, err
	}

	list, err := s.loadContacts(ctx, businessID)
	if err != nil {
		return transport.ExportResponse{}, err
	}
	rows := contacts.Filter(list, criteria)
	if len(req.Phones) > 0 {
		rows = onlySelected(rows, contacts.NewSelection(normalizePhones(req.Phones)...))
	}

	buf, err := buildWorklist(rows, s.loc)
	if err != nil {
		return transport.ExportResponse{}, apperr.Wrap(apperr.KindInternal, "could not build worklist", err)
	}

	fileName := fmt.Sprintf("worklist-%s.xlsx", s.now().In(s.loc).Format("20060102-1504"))
	size := int64(buf.Len())
	fileKey, err := s.exports.Save(ctx, businessID, fileName, xlsxContentType, buf, size)
	if err != nil {
		return transport.ExportResponse{}, apperr.Unavailable("could not store worklist", err)
	}
	url, expiresAt, err := s.exports.DownloadURL(ctx, fileKey)
	if err != nil {
		if discardErr := s.exports.Discard(ctx, fileKey); discardErr != nil {
			s.log.WithContext(ctx).Warn("orphaned worklist not removed", "fileKey", fileKey, "error", discardErr)
		}
		return transport.ExportResponse{}, apperr.Unavailable("could not sign download link", err)
	}

	s.log.WithContext(ctx).Info("worklist exported", "rows", len(rows), "fileKey", fileKey)
	return transport.ExportResponse{URL: url, FileKey: fileKey, Rows: len(rows), ExpiresAt: expiresAt}, nil
}

func onlySelected(list []contacts.Contact, selection *contacts.Selection) []contacts.Contact {
	out := make([]contacts.Contact, 0, selection.Len())
	for _, c := range list {
		if selection.Contains(c.Phone) {
			out = append(out, c)
		}
	}
	return out
}

// buildWorklist renders contacts as a single-sheet workbook. Phones are
// written as text so spreadsheet apps keep the leading zero.
func buildWorklist(list []contacts.Contact, loc *time.Location) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), worklistSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(worklistSheet, "A1", &worklistHeader); err != nil {
		return nil, err
	}

	for i, c := range list {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			c.Phone,
			c.Name,
			c.Address,
			string(c.CurrentStatus),
			formatDate(c.LastCallDate, loc),
			optionalInt(c.DaysSinceCall),
			formatDate(c.LastOrderDate, loc),
			optionalInt(c.DaysSinceOrder),
			c.TotalOrders,
			c.TotalSpent,
		}
		if err := f.SetSheetRow(worklistSheet, cellRef, &row); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
