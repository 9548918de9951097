package model

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

type Accommodation struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Slug             string    `json:"slug" bson:"slug" validate:"required,min=2,max=100,slug"`
	Name             string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	ShortDescription string    `json:"short_description,omitempty" bson:"short_description" validate:"max=500"`
	Description      string    `json:"description,omitempty" bson:"description" validate:"max=5000"`
	Capacity         string    `json:"capacity" bson:"capacity" validate:"required,max=60"`
	Price            string    `json:"price,omitempty" bson:"price" validate:"max=60"`
	Address          string    `json:"address,omitempty" bson:"address" validate:"max=200"`
	Distance         string    `json:"distance,omitempty" bson:"distance" validate:"max=200"`
	Features         []string  `json:"features,omitempty" bson:"features" validate:"max=30,dive,required,max=80"`
	MainImage        string    `json:"main_image,omitempty" bson:"main_image" validate:"omitempty,max=500,image_ref"`
	Images           []string  `json:"images,omitempty" bson:"images" validate:"max=50,dive,required,max=500,image_ref"`
	Active           bool      `json:"active" bson:"active"`
	Priority         int       `json:"priority" bson:"priority" validate:"min=0,max=1000"`
	CreatedAt        time.Time `json:"created_at,omitempty" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at,omitempty" bson:"updated_at"`
}

// AccommodationUpdate is a partial update; nil fields are left untouched.
type AccommodationUpdate struct {
	Slug             *string   `json:"slug,omitempty"`
	Name             *string   `json:"name,omitempty"`
	ShortDescription *string   `json:"short_description,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Capacity         *string   `json:"capacity,omitempty"`
	Price            *string   `json:"price,omitempty"`
	Address          *string   `json:"address,omitempty"`
	Distance         *string   `json:"distance,omitempty"`
	Features         *[]string `json:"features,omitempty"`
	MainImage        *string   `json:"main_image,omitempty"`
	Images           *[]string `json:"images,omitempty"`
	Active           *bool     `json:"active,omitempty"`
	Priority         *int      `json:"priority,omitempty"`
}

// AccommodationFilter narrows the active catalog. Zero values mean "no filter".
type AccommodationFilter struct {
	Guests   int    `json:"guests,omitempty"`
	Location string `json:"location,omitempty"`
}

func (f AccommodationFilter) IsZero() bool {
	return f.Guests <= 0 && strings.TrimSpace(f.Location) == ""
}

// GuestCapacity returns the leading integer of the capacity descriptor
// ("4+1 persone" -> 4). ok is false when the descriptor does not start with a number.
func (a *Accommodation) GuestCapacity() (n int, ok bool) {
	s := strings.TrimSpace(a.Capacity)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Hosts reports whether the accommodation can host the requested number of guests.
// A non-positive request always matches.
func (a *Accommodation) Hosts(guests int) bool {
	if guests <= 0 {
		return true
	}
	n, ok := a.GuestCapacity()
	return ok && n >= guests
}

// MatchesLocation is a case-insensitive substring match over the descriptive fields.
func (a *Accommodation) MatchesLocation(location string) bool {
	needle := strings.ToLower(strings.TrimSpace(location))
	if needle == "" {
		return true
	}
	for _, field := range []string{a.Address, a.Distance, a.Description, a.Name} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
