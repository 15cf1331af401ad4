package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwznx/pustaka/internal/entities"
)

func TestWriteLoanReport(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	returnedAt := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	loans := []entities.Loan{
		{
			ID:        1,
			UserEmail: "pembaca@example.com",
			CreatedAt: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
			DueAt:     time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			Book:      entities.Book{Title: "Laskar Pelangi"},
		},
		{
			ID:        2,
			UserEmail: "telat@example.com",
			CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			DueAt:     time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
			Book:      entities.Book{Title: "Bumi Manusia"},
		},
		{
			ID:         3,
			UserEmail:  "selesai@example.com",
			CreatedAt:  time.Date(2024, 2, 25, 9, 0, 0, 0, time.UTC),
			DueAt:      time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC),
			ReturnedAt: &returnedAt,
			Book:       entities.Book{Title: "Pulang"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLoanReport(&buf, loans, now))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Email Peminjam", "Judul Buku", "Tanggal Pinjam", "Jatuh Tempo", "Status"}, records[0])
	assert.Equal(t, []string{"pembaca@example.com", "Laskar Pelangi", "08/03/2024", "15/03/2024", "Dipinjam"}, records[1])
	assert.Equal(t, []string{"telat@example.com", "Bumi Manusia", "01/03/2024", "08/03/2024", "Terlambat"}, records[2])
	assert.Equal(t, []string{"selesai@example.com", "Pulang", "25/02/2024", "03/03/2024", "Dikembalikan"}, records[3])
}

func TestWriteLoanReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLoanReport(&buf, nil, time.Now()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "laporan-peminjaman-2024-03-10.csv", Filename(now))
}
