package models

// TeacherCourseAssignment records that a teacher can teach a course.
type TeacherCourseAssignment struct {
	ID        int64 `json:"id" db:"id"`
	TeacherID int64 `json:"teacher" db:"teacher_id" binding:"required,gt=0"`
	CourseID  int64 `json:"course" db:"course_id" binding:"required,gt=0"`
}

// BatchCourseTeacherAssignment binds a course and its teacher to a batch,
// optionally narrowed to one section.
type BatchCourseTeacherAssignment struct {
	ID        int64  `json:"id" db:"id"`
	BatchID   int64  `json:"batch" db:"batch_id" binding:"required,gt=0"`
	CourseID  int64  `json:"course" db:"course_id" binding:"required,gt=0"`
	TeacherID int64  `json:"teacher" db:"teacher_id" binding:"required,gt=0"`
	SectionID *int64 `json:"section" db:"section_id" binding:"omitempty,gt=0"`
}
