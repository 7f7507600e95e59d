package pet

import (
	"net/http"
	"strings"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "pet not found")
	ErrForbidden      = apperror.New(http.StatusForbidden, "you do not have access to this pet")
	ErrEmptyName      = apperror.NewField(http.StatusBadRequest, "name", "name cannot be empty")
	ErrNameTaken      = apperror.NewField(http.StatusConflict, "name", "you already have a pet with this name")
	ErrInvalidSpecies = apperror.NewField(http.StatusBadRequest, "species", "species must be one of DOG, CAT, BIRD, OTHER")
	ErrBirthInFuture  = apperror.NewField(http.StatusBadRequest, "birth_date", "birth_date cannot be in the future")
	ErrOwnerNotFound  = apperror.NewField(http.StatusBadRequest, "owner_id", "owner does not exist")
	ErrHasAppointment = apperror.New(http.StatusConflict, "pet has appointments and cannot be deleted")
)

type Species string

const (
	SpeciesDog   Species = "DOG"
	SpeciesCat   Species = "CAT"
	SpeciesBird  Species = "BIRD"
	SpeciesOther Species = "OTHER"
)

var speciesAliases = map[string]Species{
	"dog":      SpeciesDog,
	"cachorro": SpeciesDog,
	"cão":      SpeciesDog,
	"cao":      SpeciesDog,
	"cat":      SpeciesCat,
	"gato":     SpeciesCat,
	"bird":     SpeciesBird,
	"pássaro":  SpeciesBird,
	"passaro":  SpeciesBird,
	"other":    SpeciesOther,
	"outro":    SpeciesOther,
}

// ParseSpecies accepts the enum value or an English/Portuguese name.
func ParseSpecies(s string) (Species, bool) {
	sp, ok := speciesAliases[strings.ToLower(strings.TrimSpace(s))]
	return sp, ok
}

type Pet struct {
	ID        string
	OwnerID   string
	OwnerName string // read-side join
	Name      string
	Species   Species
	Breed     string
	BirthDate *time.Time
	CreatedAt time.Time
}

// AgeAt returns the pet's age in whole years on the given day, or nil when the
// birth date is unknown.
func (p *Pet) AgeAt(day time.Time) *int {
	if p.BirthDate == nil {
		return nil
	}
	b := *p.BirthDate
	age := day.Year() - b.Year()
	if day.Month() < b.Month() || (day.Month() == b.Month() && day.Day() < b.Day()) {
		age--
	}
	return &age
}

// Filter defines listing and search criteria. Zero values are ignored.
type Filter struct {
	OwnerID string
	Name    string
	Species Species
	Breed   string
	// Born bounds. Pets with unknown birth dates are kept.
	BornOnOrBefore *time.Time
	BornAfter      *time.Time
	Page           int
	PageSize       int
}
