package users

import "time"

// User is an account holder. Email is stored lower-cased and is unique.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is embedded in the user record and replaced as a whole on update.
type Profile struct {
	Phone          string          `json:"phone" validate:"omitempty,max=40"`
	Location       string          `json:"location" validate:"omitempty,max=120"`
	Website        string          `json:"website" validate:"omitempty,url,max=300"`
	LinkedIn       string          `json:"linkedin" validate:"omitempty,url,max=300"`
	Summary        string          `json:"summary" validate:"omitempty,max=4000"`
	Education      []Education     `json:"education" validate:"max=20,dive"`
	Experience     []Experience    `json:"experience" validate:"max=40,dive"`
	Skills         []string        `json:"skills" validate:"max=100,dive,max=80"`
	Certifications []Certification `json:"certifications" validate:"max=40,dive"`
	Achievements   []string        `json:"achievements" validate:"max=40,dive,max=500"`
}

type Education struct {
	Institution string `json:"institution" validate:"required,max=200"`
	Degree      string `json:"degree" validate:"omitempty,max=200"`
	Field       string `json:"field" validate:"omitempty,max=200"`
	StartDate   string `json:"startDate" validate:"omitempty,max=40"`
	EndDate     string `json:"endDate" validate:"omitempty,max=40"`
	GPA         string `json:"gpa" validate:"omitempty,max=20"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type Experience struct {
	Company     string   `json:"company" validate:"required,max=200"`
	Position    string   `json:"position" validate:"required,max=200"`
	Location    string   `json:"location" validate:"omitempty,max=120"`
	StartDate   string   `json:"startDate" validate:"omitempty,max=40"`
	EndDate     string   `json:"endDate" validate:"omitempty,max=40"`
	Current     bool     `json:"current"`
	Description string   `json:"description" validate:"omitempty,max=4000"`
	Highlights  []string `json:"highlights" validate:"max=20,dive,max=500"`
}

type Certification struct {
	Name   string `json:"name" validate:"required,max=200"`
	Issuer string `json:"issuer" validate:"omitempty,max=200"`
	Date   string `json:"date" validate:"omitempty,max=40"`
	URL    string `json:"url" validate:"omitempty,url,max=300"`
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}
