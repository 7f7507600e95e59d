package offering

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "service not found")
	ErrEmptyName       = apperror.NewField(http.StatusBadRequest, "name", "name cannot be empty")
	ErrNameTaken       = apperror.NewField(http.StatusConflict, "name", "a service with this name already exists")
	ErrInvalidDuration = apperror.NewField(http.StatusBadRequest, "duration_minutes", "duration_minutes must be greater than zero")
	ErrInvalidPrice    = apperror.NewField(http.StatusBadRequest, "price", "price must be a non-negative amount with at most two decimals")
	ErrInUse           = apperror.New(http.StatusConflict, "service has appointments and cannot be deleted")
)

const DefaultDurationMinutes = 30

// Offering is a bookable service of the clinic (bath, grooming, consultation).
type Offering struct {
	ID              string
	Name            string
	Description     string
	PriceCents      int64
	DurationMinutes int
	CreatedAt       time.Time
}

// Duration returns the service length.
func (o *Offering) Duration() time.Duration {
	return time.Duration(o.DurationMinutes) * time.Minute
}

// Price renders PriceCents as a decimal string such as "45.00".
func (o *Offering) Price() string {
	return FormatCents(o.PriceCents)
}

// Filter defines parameters for listing services.
type Filter struct {
	Name     string // case-insensitive substring
	Page     int
	PageSize int
}

// FormatCents renders an amount of cents with two decimals.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseCents parses a decimal amount ("45", "45.5", "45.50") into cents.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidPrice
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, ErrInvalidPrice
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	return w*100 + f, nil
}

// NormalizeName trims the name and title-cases each word.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
