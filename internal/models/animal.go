package models

import "fmt"

// Animal describes a single head of livestock.
type Animal struct {
	BaseModel

	Name         string  `gorm:"not null" json:"name"`
	Breed        string  `json:"breed"`
	Species      string  `json:"species"`
	AgeYears     int     `gorm:"column:age_years" json:"age_years"`
	AgeMonths    int     `gorm:"column:age_months" json:"age_months"`
	Weight       float64 `json:"weight"`
	HealthStatus string  `gorm:"column:health_status" json:"health_status"`
	ImageURL     string  `gorm:"column:image_url" json:"image_url"`

	UserUID string `gorm:"column:user_uid;index;not null" json:"user_uid"`
}

// TotalAgeInMonths flattens the years/months split into a single figure.
func (a *Animal) TotalAgeInMonths() int {
	return a.AgeYears*12 + a.AgeMonths
}

// SetAgeFromTotalMonths splits a month count back into years and months.
func (a *Animal) SetAgeFromTotalMonths(totalMonths int) {
	a.AgeYears = totalMonths / 12
	a.AgeMonths = totalMonths % 12
}

// FormattedAge renders the age for display, e.g. "2 years and 3 months".
func (a *Animal) FormattedAge() string {
	switch {
	case a.AgeYears == 0:
		return pluralise(a.AgeMonths, "month")
	case a.AgeMonths == 0:
		return pluralise(a.AgeYears, "year")
	default:
		return fmt.Sprintf("%s and %s", pluralise(a.AgeYears, "year"), pluralise(a.AgeMonths, "month"))
	}
}

func pluralise(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
