package entities

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

// BookCategory is the fixed catalog taxonomy.
type BookCategory string

const (
	CategoryUmum      BookCategory = "Umum"
	CategoryTeknologi BookCategory = "Teknologi"
	CategoryFiksi     BookCategory = "Fiksi"
	CategorySains     BookCategory = "Sains"
	CategorySejarah   BookCategory = "Sejarah"
	CategoryBisnis    BookCategory = "Bisnis"
)

// AllCategories lists every valid book category.
var AllCategories = []BookCategory{
	CategoryUmum,
	CategoryTeknologi,
	CategoryFiksi,
	CategorySains,
	CategorySejarah,
	CategoryBisnis,
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c BookCategory) bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string   `gorm:"size:100" json:"-"`
	Role         UserRole `gorm:"size:20;default:'member'" json:"role"`

	// API token (hash only; plaintext is shown once at generation time)
	TokenHash      string     `gorm:"index;size:64" json:"-"`
	TokenCreatedAt *time.Time `json:"-"`

	// Login throttling
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Book struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"index;size:512" json:"title"`
	Author      string       `gorm:"index;size:256" json:"author"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Category    BookCategory `gorm:"index;size:50;default:'Umum'" json:"category"`
	Stock       int          `gorm:"not null;default:0" json:"stock"`
	CoverURL    string       `gorm:"size:2048" json:"cover_url,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Loan records one user borrowing one copy of a book. A loan is active while
// ReturnedAt is nil; returning archives the row instead of deleting it so that
// leaderboards and reports keep their history.
type Loan struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`
	// Email denormalized at borrow time; admin listings and CSV exports read
	// it without joining users.
	UserEmail string `gorm:"size:255" json:"user_email"`
	BookID    uint   `gorm:"index" json:"book_id"`

	DueAt      time.Time  `gorm:"index" json:"due_at"`
	ReturnedAt *time.Time `gorm:"index" json:"returned_at,omitempty"`
	// Fine in IDR, fixed at return time. Informational only; there is no
	// payment flow.
	Fine int64 `gorm:"default:0" json:"fine"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the loan has not been returned yet.
func (l *Loan) Active() bool {
	return l.ReturnedAt == nil
}

// Overdue is never stored; it is derived from the clock at read time.
func (l *Loan) Overdue(now time.Time) bool {
	return l.Active() && now.After(l.DueAt)
}

type Favorite struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_favorites_user_book" json:"user_id"`
	BookID uint `gorm:"uniqueIndex:idx_favorites_user_book" json:"book_id"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookID    uint   `gorm:"index" json:"book_id"`
	UserEmail string `gorm:"size:255" json:"user_email"`
	Rating    int    `gorm:"not null" json:"rating"` // 1..5
	Comment   string `gorm:"type:text" json:"comment"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index" json:"user_id"`
	Message string `gorm:"type:text" json:"message"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type Profile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"uniqueIndex" json:"user_id"`
	FullName  string `gorm:"size:255" json:"full_name"`
	AvatarURL string `gorm:"size:2048" json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string         { return "users" }
func (Book) TableName() string         { return "books" }
func (Loan) TableName() string         { return "loans" }
func (Favorite) TableName() string     { return "favorites" }
func (Review) TableName() string       { return "reviews" }
func (Notification) TableName() string { return "notifications" }
func (Profile) TableName() string      { return "profiles" }
