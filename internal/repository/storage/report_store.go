package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReportStore stores exported report files and hands out temporary download links
type ReportStore interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// XLSXContentType is the MIME type of an exported workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GenerateReportPath creates a unique object path: reports/<org>/<kind>-<YYYYMMDD>-<uuid>.xlsx
func GenerateReportPath(orgID uuid.UUID, kind string, day time.Time) string {
	filename := fmt.Sprintf("%s-%s-%s.xlsx", kind, day.Format("20060102"), uuid.New().String())
	return path.Join("reports", orgID.String(), filename)
}
