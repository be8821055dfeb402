// Package person holds the health details shared by a user profile and
// a family member record.
package person

import (
	"github.com/NordCoder/Carelink/internal/domain"
)

type Details struct {
	Name       *string        `json:"name"`
	BirthDate  *string        `json:"birth_date"`
	Gender     *string        `json:"gender"`
	Height     *float64       `json:"height"`
	Weight     *float64       `json:"weight"`
	Allergy    map[string]any `json:"allergy"`
	Medication map[string]any `json:"medication"`
}

var ErrInvalidGender = domain.Detail(domain.ErrInvalidInput, "invalid gender")

var genders = map[string]string{
	"male":   "male",
	"female": "female",
	"남자":     "male",
	"여자":     "female",
}

// NormalizeGender maps accepted spellings to "male" or "female".
// nil stays nil.
func NormalizeGender(g *string) (*string, error) {
	if g == nil {
		return nil, nil
	}
	v, ok := genders[*g]
	if !ok {
		return nil, ErrInvalidGender
	}
	return &v, nil
}

// Normalize validates and rewrites enumerated fields in place.
func (d *Details) Normalize() error {
	g, err := NormalizeGender(d.Gender)
	if err != nil {
		return err
	}
	d.Gender = g
	return nil
}

// Apply copies every field set in patch onto d. Unset fields are left alone,
// so a patch can not clear a value.
func (d *Details) Apply(patch Details) {
	if patch.Name != nil {
		d.Name = patch.Name
	}
	if patch.BirthDate != nil {
		d.BirthDate = patch.BirthDate
	}
	if patch.Gender != nil {
		d.Gender = patch.Gender
	}
	if patch.Height != nil {
		d.Height = patch.Height
	}
	if patch.Weight != nil {
		d.Weight = patch.Weight
	}
	if patch.Allergy != nil {
		d.Allergy = patch.Allergy
	}
	if patch.Medication != nil {
		d.Medication = patch.Medication
	}
}
