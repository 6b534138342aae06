package models

// Course is a course offered by a department.
type Course struct {
	ID           int64      `json:"id" db:"id"`
	Code         string     `json:"code" db:"code" binding:"required,max=20" example:"CS-201"`
	Name         string     `json:"name" db:"name" binding:"required,max=150" example:"Data Structures"`
	CreditHours  int        `json:"credit_hours" db:"credit_hours" binding:"gte=0,lte=6" example:"3"`
	CourseType   CourseType `json:"course_type" db:"course_type" binding:"required,oneof=theory lab" example:"theory"`
	DepartmentID *int64     `json:"department" db:"department_id" binding:"omitempty,gt=0"`
}
