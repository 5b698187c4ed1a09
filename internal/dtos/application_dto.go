package dtos

type ApplicationRequest struct {
	JobID string `json:"job_id" binding:"required"`

	// Which of these are required depends on the job's profile fields.
	FullName    string `json:"full_name" binding:"omitempty,max=120"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,digits,min=6,max=15"`
	CountryCode string `json:"country_code" binding:"omitempty,countrycode"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,pastdate"`
	Gender      string `json:"gender" binding:"omitempty,oneof=female male"`
	Domicile    string `json:"domicile" binding:"omitempty,max=80"`
	LinkedinURL string `json:"linkedin_url" binding:"omitempty,url"`

	// Either an inline data URL / base64 JPEG or a finished capture session.
	PhotoData        string `json:"photo_data"`
	CaptureSessionID string `json:"capture_session_id"`
}

// Present reports which profile fields were filled in, keyed like
// models.ProfileFields.Levels.
func (r *ApplicationRequest) Present() map[string]bool {
	return map[string]bool{
		"full_name":     r.FullName != "",
		"photo_profile": r.PhotoData != "" || r.CaptureSessionID != "",
		"gender":        r.Gender != "",
		"domicile":      r.Domicile != "",
		"email":         r.Email != "",
		"phone_number":  r.PhoneNumber != "",
		"linkedin_link": r.LinkedinURL != "",
		"date_of_birth": r.DateOfBirth != "",
	}
}

type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed accepted rejected"`
}

// BulkStatusRequest targets candidates the way the table's checkboxes do:
// either everything visible under Query minus Exclude, or exactly IDs.
type BulkStatusRequest struct {
	Status  string   `json:"status" binding:"required,oneof=pending reviewed accepted rejected"`
	Query   string   `json:"q"`
	All     bool     `json:"all"`
	IDs     []string `json:"ids"`
	Exclude []string `json:"exclude"`
}
