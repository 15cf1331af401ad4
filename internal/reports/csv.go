// Package reports builds the downloadable loan reports for the admin
// dashboard.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/alwznx/pustaka/internal/entities"
)

// Loan report status labels, matching what the dashboard shows.
const (
	StatusBorrowed = "Dipinjam"
	StatusOverdue  = "Terlambat"
	StatusReturned = "Dikembalikan"
)

// dateLayout follows the dd/mm/yyyy convention used across the UI.
const dateLayout = "02/01/2006"

var header = []string{"Email Peminjam", "Judul Buku", "Tanggal Pinjam", "Jatuh Tempo", "Status"}

// WriteLoanReport writes the loans as CSV. The status column is derived from
// the clock: an active loan past its due date is reported as overdue.
// Book rows must be preloaded on the loans.
func WriteLoanReport(w io.Writer, loans []entities.Loan, now time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}

	for _, loan := range loans {
		record := []string{
			loan.UserEmail,
			loan.Book.Title,
			loan.CreatedAt.Format(dateLayout),
			loan.DueAt.Format(dateLayout),
			statusLabel(loan, now),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing report row for loan %d: %w", loan.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func statusLabel(loan entities.Loan, now time.Time) string {
	switch {
	case loan.ReturnedAt != nil:
		return StatusReturned
	case loan.Overdue(now):
		return StatusOverdue
	default:
		return StatusBorrowed
	}
}

// Filename names the report download after the day it was generated.
func Filename(now time.Time) string {
	return "laporan-peminjaman-" + now.Format("2006-01-02") + ".csv"
}
