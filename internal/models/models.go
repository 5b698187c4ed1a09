package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	JobStatusActive   = "active"
	JobStatusInactive = "inactive"
	JobStatusDraft    = "draft"
)

const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Requirement levels for an applicant profile field.
const (
	FieldMandatory = "mandatory"
	FieldOptional  = "optional"
	FieldOff       = "off"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string `json:"full_name"`
	Role         string `gorm:"not null;default:'user'" json:"role"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// AuthSession backs one issued token; its ID is the token's jti.
type AuthSession struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// ProfileFields says which applicant fields a job asks for.
type ProfileFields struct {
	FullName     string `json:"full_name"`
	PhotoProfile string `json:"photo_profile"`
	Gender       string `json:"gender"`
	Domicile     string `json:"domicile"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	LinkedinLink string `json:"linkedin_link"`
	DateOfBirth  string `json:"date_of_birth"`
}

// DefaultProfileFields makes every field mandatory.
func DefaultProfileFields() ProfileFields {
	return ProfileFields{
		FullName:     FieldMandatory,
		PhotoProfile: FieldMandatory,
		Gender:       FieldMandatory,
		Domicile:     FieldMandatory,
		Email:        FieldMandatory,
		PhoneNumber:  FieldMandatory,
		LinkedinLink: FieldMandatory,
		DateOfBirth:  FieldMandatory,
	}
}

// Levels returns the requirement of each field keyed by its JSON name.
// Empty values count as mandatory.
func (p ProfileFields) Levels() map[string]string {
	lv := map[string]string{
		"full_name":     p.FullName,
		"photo_profile": p.PhotoProfile,
		"gender":        p.Gender,
		"domicile":      p.Domicile,
		"email":         p.Email,
		"phone_number":  p.PhoneNumber,
		"linkedin_link": p.LinkedinLink,
		"date_of_birth": p.DateOfBirth,
	}
	for k, v := range lv {
		if v == "" {
			lv[k] = FieldMandatory
		}
	}
	return lv
}

type Job struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title            string        `gorm:"not null" json:"title"`
	Company          string        `gorm:"not null" json:"company"`
	Location         string        `json:"location"`
	SalaryMin        int64         `json:"salary_min"`
	SalaryMax        int64         `json:"salary_max"`
	JobType          string        `json:"job_type"`
	Level            string        `json:"level"`
	Description      string        `gorm:"type:text" json:"description"`
	About            string        `gorm:"type:text" json:"about"`
	Requirements     []string      `gorm:"serializer:json" json:"requirements"`
	Tools            []string      `gorm:"serializer:json" json:"tools"`
	Competency       []string      `gorm:"serializer:json" json:"competency"`
	Status           string        `gorm:"index;not null;default:'active'" json:"status"`
	CandidatesNeeded int           `json:"candidates_needed"`
	StartDate        *time.Time    `json:"start_date,omitempty"`
	ProfileFields    ProfileFields `gorm:"serializer:json" json:"profile_fields"`
	CreatedBy        string        `gorm:"index;size:36" json:"created_by"`
}

type Application struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobID string `gorm:"size:36;not null;uniqueIndex:idx_application_job_user" json:"job_id"`
	// Association: needs Preload() to fill
	Job    *Job   `json:"job,omitempty"`
	UserID string `gorm:"size:36;not null;uniqueIndex:idx_application_job_user" json:"user_id"`

	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	CountryCode string `json:"country_code"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Domicile    string `json:"domicile"`
	LinkedinURL string `json:"linkedin_url"`
	PhotoURL    string `json:"photo_url"`
	Status      string `gorm:"not null;default:'pending'" json:"status"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error        { return assignID(&u.ID) }
func (s *AuthSession) BeforeCreate(tx *gorm.DB) error { return assignID(&s.ID) }
func (j *Job) BeforeCreate(tx *gorm.DB) error         { return assignID(&j.ID) }
func (a *Application) BeforeCreate(tx *gorm.DB) error { return assignID(&a.ID) }

func assignID(id *string) error {
	if *id == "" {
		*id = uuid.NewString()
	}
	return nil
}

// All lists every model for migrations.
func All() []any {
	return []any{&User{}, &AuthSession{}, &Job{}, &Application{}}
}
