package models

// Year is a study year offered by a department.
type Year struct {
	ID           int64  `json:"id" db:"id"`
	DepartmentID int64  `json:"department" db:"department_id" binding:"required,gt=0"`
	Name         string `json:"name" db:"name" binding:"required,max=50" example:"First"`
}

// Batch is an intake of students within a year.
type Batch struct {
	ID      int64   `json:"id" db:"id"`
	YearID  int64   `json:"year" db:"year_id" binding:"required,gt=0"`
	Name    string  `json:"name" db:"name" binding:"required,max=50" example:"BSCS-2024"`
	Session *string `json:"session" db:"session" binding:"omitempty,max=20" example:"2024-2028"`
}

// Section splits a batch into teaching groups.
type Section struct {
	ID       int64  `json:"id" db:"id"`
	BatchID  int64  `json:"batch" db:"batch_id" binding:"required,gt=0"`
	Name     string `json:"name" db:"name" binding:"required,max=10" example:"A"`
	Strength *int   `json:"strength" db:"strength" binding:"omitempty,gte=0" example:"50"`
}
