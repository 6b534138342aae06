package models

// Department is an academic department.
type Department struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" binding:"required,max=100" example:"Computer Science"`
}
