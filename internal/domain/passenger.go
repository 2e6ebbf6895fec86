package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Passenger struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name" validate:"required"`
	LastName       string    `json:"last_name" validate:"required"`
	BirthDate      time.Time `json:"birth_date"`
	PassportNumber string    `json:"passport_number" validate:"required,alphanum"`
	Nationality    string    `json:"nationality" validate:"required"`
	ContactEmail   string    `json:"contact_email" validate:"required,email"`
	ContactPhone   string    `json:"contact_phone" validate:"required,e164"`
}

func NewPassenger(firstName, lastName string, birthDate time.Time, passportNumber, nationality, email, phone string) *Passenger {
	return &Passenger{
		ID:             "P-" + uuid.NewString(),
		FirstName:      firstName,
		LastName:       lastName,
		BirthDate:      birthDate,
		PassportNumber: passportNumber,
		Nationality:    nationality,
		ContactEmail:   email,
		ContactPhone:   phone,
	}
}

func (p *Passenger) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age counts whole 365-day years between the birth date and now.
func (p *Passenger) Age(now time.Time) int {
	return int(now.Sub(p.BirthDate) / (365 * 24 * time.Hour))
}

// Validate checks the profile fields. The returned error wraps ErrInvalidPassenger.
func (p *Passenger) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidPassenger, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidPassenger, err)
	}
	return nil
}
