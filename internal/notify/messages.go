package notify

import (
	"fmt"

	"github.com/alwznx/pustaka/internal/loans"
)

const dueDateFormat = "02 Jan 2006"

// MessageFor renders the user-facing text for a loan event. Messages are
// short single sentences; the notification list is the only place they show.
func MessageFor(event loans.Event) string {
	switch event.Kind {
	case loans.EventBorrowed:
		return fmt.Sprintf("Berhasil meminjam %q. Batas pengembalian: %s.",
			event.BookTitle, event.DueAt.Format(dueDateFormat))
	case loans.EventReturned:
		if event.Fine > 0 {
			return fmt.Sprintf("%q dikembalikan terlambat %d hari. Denda: Rp%d.",
				event.BookTitle, event.DaysLate, event.Fine)
		}
		return fmt.Sprintf("%q berhasil dikembalikan. Terima kasih!", event.BookTitle)
	case loans.EventReclaimed:
		return fmt.Sprintf("%q ditarik kembali oleh admin perpustakaan.", event.BookTitle)
	case loans.EventOverdue:
		return fmt.Sprintf("%q sudah melewati batas pengembalian (%s). Segera kembalikan untuk menghindari denda tambahan.",
			event.BookTitle, event.DueAt.Format(dueDateFormat))
	default:
		return fmt.Sprintf("Pembaruan peminjaman untuk %q.", event.BookTitle)
	}
}
