package dto

import (
	"github.com/timetable/scheduler/internal/app/models"
)

// AdvisorRequest is the create/update body for advisors.
// Password is enforced on create by the service.
type AdvisorRequest struct {
	Username  string              `json:"username" binding:"required,max=150,username" example:"advisor.cs1"`
	Password  *string             `json:"password,omitempty" binding:"omitempty,min=1,max=128"`
	Email     *string             `json:"email,omitempty" binding:"omitempty,email,max=254" example:"advisor@university.edu"`
	FirstName string              `json:"first_name" binding:"max=150" example:"Bilal"`
	LastName  string              `json:"last_name" binding:"max=150" example:"Ahmed"`
	Faculty   *string             `json:"faculty,omitempty" binding:"omitempty,max=100" example:"Computing"`
	Seniority *models.Seniority   `json:"seniority,omitempty" binding:"omitempty,oneof=professor associate_professor assistant_professor lecturer it_manager_sr it_manager_jr"`
	Year      *models.AdvisorYear `json:"year,omitempty" binding:"omitempty,oneof=first second third fourth"`
}

// AdvisorUser is the nested user part of an advisor representation.
type AdvisorUser struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
}

// AdvisorResponse is the read representation of an advisor.
type AdvisorResponse struct {
	ID        int64               `json:"id"`
	User      AdvisorUser         `json:"user"`
	DEO       *int64              `json:"deo"`
	Faculty   *string             `json:"faculty"`
	Seniority *models.Seniority   `json:"seniority"`
	Year      *models.AdvisorYear `json:"year"`
}

// NewAdvisorResponse builds the read representation from an advisor with its user loaded.
func NewAdvisorResponse(a *models.Advisor) AdvisorResponse {
	resp := AdvisorResponse{
		ID:        a.ID,
		DEO:       a.DEOID,
		Faculty:   a.Faculty,
		Seniority: a.Seniority,
		Year:      a.Year,
	}
	if a.User != nil {
		resp.User = AdvisorUser{
			ID:        a.User.ID,
			Username:  a.User.Username,
			Email:     a.User.Email,
			FirstName: a.User.FirstName,
			LastName:  a.User.LastName,
			Role:      string(a.User.Role),
		}
	}
	return resp
}

// NewAdvisorListResponse maps a slice of advisors, never returning nil.
func NewAdvisorListResponse(advisors []*models.Advisor) []AdvisorResponse {
	out := make([]AdvisorResponse, 0, len(advisors))
	for _, a := range advisors {
		out = append(out, NewAdvisorResponse(a))
	}
	return out
}
