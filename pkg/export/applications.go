// Package export renders application listings as spreadsheets.
package export

import (
	"fmt"
	"jobconnect-backend/internal/domain"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Applications"

var header = []interface{}{
	"Application ID", "Job ID", "Job Title", "Company", "Applicant", "Applicant Email",
	"Status", "Applied At", "Reviewed At", "Resume URL", "Notes",
}

// ApplicationsXLSX writes one row per application under a header row.
func ApplicationsXLSX(apps []domain.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, app := range apps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := applicationRow(app)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func applicationRow(app domain.Application) []interface{} {
	var jobTitle, company, applicantName, applicantEmail, resumeURL, reviewedAt string
	if app.Job != nil {
		jobTitle = app.Job.Title
		company = app.Job.Company
	}
	if app.Applicant != nil {
		applicantName = app.Applicant.Name
		applicantEmail = app.Applicant.Email
	}
	if app.Resume != nil {
		resumeURL = app.Resume.URL
	}
	if app.ReviewedAt != nil {
		reviewedAt = app.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return []interface{}{
		app.ID, app.JobID, jobTitle, company, applicantName, applicantEmail,
		string(app.Status), app.AppliedAt.UTC().Format(time.RFC3339), reviewedAt, resumeURL, app.Notes,
	}
}
