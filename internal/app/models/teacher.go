package models

// Teacher is an instructor that can be assigned to courses.
type Teacher struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name" binding:"required,max=100"`
	Email        *string    `json:"email" db:"email" binding:"omitempty,email,max=254"`
	DepartmentID *int64     `json:"department" db:"department_id" binding:"omitempty,gt=0"`
	Seniority    *Seniority `json:"seniority" db:"seniority" binding:"omitempty,oneof=professor associate_professor assistant_professor lecturer it_manager_sr it_manager_jr"`
}
