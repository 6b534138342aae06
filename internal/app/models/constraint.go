package models

// Compensatory is a make-up class requested for a section.
type Compensatory struct {
	ID        int64   `json:"id" db:"id"`
	SectionID *int64  `json:"section" db:"section_id" binding:"omitempty,gt=0"`
	CourseID  *int64  `json:"course" db:"course_id" binding:"omitempty,gt=0"`
	Day       Weekday `json:"day" db:"day" binding:"required,oneof=monday tuesday wednesday thursday friday saturday"`
	Reason    *string `json:"reason" db:"reason" binding:"omitempty,max=255"`
}

// CoursePreferenceConstraints captures an advisor's timing preference for a
// course taught to a section.
type CoursePreferenceConstraints struct {
	ID            int64    `json:"id" db:"id"`
	SectionID     *int64   `json:"section" db:"section_id" binding:"omitempty,gt=0"`
	CourseID      *int64   `json:"course" db:"course_id" binding:"omitempty,gt=0"`
	TeacherID     *int64   `json:"teacher" db:"teacher_id" binding:"omitempty,gt=0"`
	PreferredDay  *Weekday `json:"preferred_day" db:"preferred_day" binding:"omitempty,oneof=monday tuesday wednesday thursday friday saturday"`
	PreferredTime *string  `json:"preferred_time" db:"preferred_time" binding:"omitempty,max=50" example:"morning"`
}
