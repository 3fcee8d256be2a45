package pastes

import "time"

type Expiry string

const (
	ExpiryNever Expiry = "never"
	ExpiryHour  Expiry = "1h"
	ExpiryDay   Expiry = "1d"
	ExpiryWeek  Expiry = "1w"
	ExpiryMonth Expiry = "1m"
)

// Duration returns the relative lifetime for the choice, or false for
// ExpiryNever and unknown values.
func (e Expiry) Duration() (time.Duration, bool) {
	switch e {
	case ExpiryHour:
		return time.Hour, true
	case ExpiryDay:
		return 24 * time.Hour, true
	case ExpiryWeek:
		return 7 * 24 * time.Hour, true
	case ExpiryMonth:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

const LanguagePlain = "text"

// Languages mirrors the grammar set offered by the creation form.
var Languages = []string{
	"text", "javascript", "typescript", "python", "java", "css", "html",
	"json", "xml", "sql", "bash", "php", "cpp", "csharp", "go", "rust",
}

func KnownLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

type Paste struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Content   string     `json:"content"`
	Language  string     `json:"language"`
	IsPrivate bool       `json:"is_private"`
	ViewCount int64      `json:"view_count"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Bcrypt hash of the access password. Never serialized; callers see
	// HasPassword instead.
	PasswordHash string `json:"-"`

	HasPassword bool `json:"has_password"`
}

// Summary is the projection used by the recent listing. No content, no
// password data.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Language  string    `json:"language"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePasteRequest struct {
	Title     string
	Content   string
	Language  string
	Expiry    Expiry
	IsPrivate bool
	Password  string
}
