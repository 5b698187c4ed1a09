package dtos

import "github.com/justsurfingit/job-portal/internal/models"

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

type ProfileFieldsRequest struct {
	FullName     string `json:"full_name" binding:"omitempty,oneof=mandatory optional off"`
	PhotoProfile string `json:"photo_profile" binding:"omitempty,oneof=mandatory optional off"`
	Gender       string `json:"gender" binding:"omitempty,oneof=mandatory optional off"`
	Domicile     string `json:"domicile" binding:"omitempty,oneof=mandatory optional off"`
	Email        string `json:"email" binding:"omitempty,oneof=mandatory optional off"`
	PhoneNumber  string `json:"phone_number" binding:"omitempty,oneof=mandatory optional off"`
	LinkedinLink string `json:"linkedin_link" binding:"omitempty,oneof=mandatory optional off"`
	DateOfBirth  string `json:"date_of_birth" binding:"omitempty,oneof=mandatory optional off"`
}

// Model fills unset levels with mandatory.
func (p *ProfileFieldsRequest) Model() models.ProfileFields {
	out := models.DefaultProfileFields()
	if p == nil {
		return out
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.FullName, p.FullName)
	set(&out.PhotoProfile, p.PhotoProfile)
	set(&out.Gender, p.Gender)
	set(&out.Domicile, p.Domicile)
	set(&out.Email, p.Email)
	set(&out.PhoneNumber, p.PhoneNumber)
	set(&out.LinkedinLink, p.LinkedinLink)
	set(&out.DateOfBirth, p.DateOfBirth)
	return out
}

type JobCreationRequest struct {
	Title            string `json:"title" binding:"required,max=200"`
	JobType          string `json:"job_type" binding:"required,oneof=Full-Time Part-Time Contract Internship Freelance Remote"`
	Description      string `json:"description" binding:"required"`
	CandidatesNeeded int    `json:"candidates_needed" binding:"required,min=1"`

	// Optional Fields
	Company       string                `json:"company" binding:"omitempty,max=200"`
	Location      string                `json:"location"`
	SalaryMin     int64                 `json:"salary_min" binding:"gte=0"`
	SalaryMax     int64                 `json:"salary_max" binding:"gte=0,gtefield=SalaryMin"`
	Level         string                `json:"level"`
	About         string                `json:"about"`
	Requirements  []string              `json:"requirements"`
	Tools         []string              `json:"tools"`
	Competency    []string              `json:"competency"`
	Status        string                `json:"status" binding:"omitempty,oneof=active inactive draft"` // Defaults to "active" if empty
	StartDate     string                `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	ProfileFields *ProfileFieldsRequest `json:"profile_fields"`
}

// JobUpdateRequest is a partial update; nil fields are left alone.
type JobUpdateRequest struct {
	Title            *string               `json:"title" binding:"omitempty,min=1,max=200"`
	JobType          *string               `json:"job_type" binding:"omitempty,oneof=Full-Time Part-Time Contract Internship Freelance Remote"`
	Description      *string               `json:"description" binding:"omitempty,min=1"`
	CandidatesNeeded *int                  `json:"candidates_needed" binding:"omitempty,min=1"`
	Company          *string               `json:"company" binding:"omitempty,min=1,max=200"`
	Location         *string               `json:"location"`
	SalaryMin        *int64                `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax        *int64                `json:"salary_max" binding:"omitempty,gte=0"`
	Level            *string               `json:"level"`
	About            *string               `json:"about"`
	Requirements     []string              `json:"requirements"`
	Tools            []string              `json:"tools"`
	Competency       []string              `json:"competency"`
	Status           *string               `json:"status" binding:"omitempty,oneof=active inactive draft"`
	StartDate        *string               `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	ProfileFields    *ProfileFieldsRequest `json:"profile_fields"`
}

type ListQuery struct {
	Query    string `form:"q"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
