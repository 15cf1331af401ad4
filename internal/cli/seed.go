// Package cli implements the command line subcommands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alwznx/pustaka/internal/config"
	"github.com/alwznx/pustaka/internal/database"
	"github.com/alwznx/pustaka/internal/entities"
)

// SeedCommand fills an empty catalog with a starter set of books.
type SeedCommand struct {
	DatabasePath string
	Force        bool
}

// NewSeedCommand creates a new SeedCommand
func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database file")
	fs.BoolVar(&cmd.Force, "force", false, "Seed even when the catalog already has books")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fill an empty catalog with a starter set of books across all categories.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -db ./pustaka.db -force\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the seed command
func (cmd *SeedCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var existing int64
	if err := db.DB.Model(&entities.Book{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if existing > 0 && !cmd.Force {
		fmt.Printf("Catalog already has %d books, nothing to do (use -force to seed anyway)\n", existing)
		return nil
	}

	books := seedBooks()
	if err := db.DB.Create(&books).Error; err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	fmt.Printf("Seeded %d books into %s\n", len(books), absDBPath)
	return nil
}

func seedBooks() []entities.Book {
	return []entities.Book{
		{Title: "Laskar Pelangi", Author: "Andrea Hirata", Category: entities.CategoryFiksi, Stock: 4,
			Description: "Sepuluh anak Belitung dan sekolah Muhammadiyah yang nyaris roboh."},
		{Title: "Bumi Manusia", Author: "Pramoedya Ananta Toer", Category: entities.CategoryFiksi, Stock: 3,
			Description: "Minke dan Annelies di Hindia Belanda pergantian abad."},
		{Title: "Pulang", Author: "Leila S. Chudori", Category: entities.CategoryFiksi, Stock: 2},
		{Title: "Clean Code", Author: "Robert C. Martin", Category: entities.CategoryTeknologi, Stock: 5,
			Description: "Panduan menulis kode yang mudah dibaca dan dirawat."},
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Category: entities.CategoryTeknologi, Stock: 3},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Category: entities.CategoryTeknologi, Stock: 2},
		{Title: "Sapiens", Author: "Yuval Noah Harari", Category: entities.CategorySejarah, Stock: 4,
			Description: "Riwayat singkat umat manusia."},
		{Title: "Sejarah Indonesia Modern", Author: "M.C. Ricklefs", Category: entities.CategorySejarah, Stock: 2},
		{Title: "Cosmos", Author: "Carl Sagan", Category: entities.CategorySains, Stock: 3},
		{Title: "A Brief History of Time", Author: "Stephen Hawking", Category: entities.CategorySains, Stock: 2},
		{Title: "Atomic Habits", Author: "James Clear", Category: entities.CategoryBisnis, Stock: 5,
			Description: "Perubahan kecil, hasil luar biasa."},
		{Title: "Rich Dad Poor Dad", Author: "Robert Kiyosaki", Category: entities.CategoryBisnis, Stock: 3},
		{Title: "Filosofi Teras", Author: "Henry Manampiring", Category: entities.CategoryUmum, Stock: 4,
			Description: "Stoisisme untuk kehidupan sehari-hari."},
		{Title: "Sebuah Seni untuk Bersikap Bodo Amat", Author: "Mark Manson", Category: entities.CategoryUmum, Stock: 3},
	}
}
