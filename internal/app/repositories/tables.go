package repositories

import (
	"github.com/timetable/scheduler/internal/app/models"
)

// DepartmentTable maps models.Department.
var DepartmentTable = Table[models.Department]{
	Name:    "departments",
	Columns: []string{"name"},
	Values:  func(d *models.Department) []any { return []any{d.Name} },
	Targets: func(d *models.Department) []any { return []any{&d.ID, &d.Name} },
	ID:      func(d *models.Department) *int64 { return &d.ID },
}

// YearTable maps models.Year.
var YearTable = Table[models.Year]{
	Name:    "years",
	Columns: []string{"department_id", "name"},
	Values:  func(y *models.Year) []any { return []any{y.DepartmentID, y.Name} },
	Targets: func(y *models.Year) []any { return []any{&y.ID, &y.DepartmentID, &y.Name} },
	ID:      func(y *models.Year) *int64 { return &y.ID },
}

// BatchTable maps models.Batch.
var BatchTable = Table[models.Batch]{
	Name:    "batches",
	Columns: []string{"year_id", "name", "session"},
	Values:  func(b *models.Batch) []any { return []any{b.YearID, b.Name, b.Session} },
	Targets: func(b *models.Batch) []any { return []any{&b.ID, &b.YearID, &b.Name, &b.Session} },
	ID:      func(b *models.Batch) *int64 { return &b.ID },
}

// SectionTable maps models.Section.
var SectionTable = Table[models.Section]{
	Name:    "sections",
	Columns: []string{"batch_id", "name", "strength"},
	Values:  func(s *models.Section) []any { return []any{s.BatchID, s.Name, s.Strength} },
	Targets: func(s *models.Section) []any { return []any{&s.ID, &s.BatchID, &s.Name, &s.Strength} },
	ID:      func(s *models.Section) *int64 { return &s.ID },
}

// TeacherTable maps models.Teacher.
var TeacherTable = Table[models.Teacher]{
	Name:    "teachers",
	Columns: []string{"name", "email", "department_id", "seniority"},
	Values: func(t *models.Teacher) []any {
		return []any{t.Name, t.Email, t.DepartmentID, t.Seniority}
	},
	Targets: func(t *models.Teacher) []any {
		return []any{&t.ID, &t.Name, &t.Email, &t.DepartmentID, &t.Seniority}
	},
	ID: func(t *models.Teacher) *int64 { return &t.ID },
}

// RoomTable maps models.Room.
var RoomTable = Table[models.Room]{
	Name:    "rooms",
	Columns: []string{"name", "capacity", "room_type", "department_id"},
	Values: func(r *models.Room) []any {
		return []any{r.Name, r.Capacity, r.RoomType, r.DepartmentID}
	},
	Targets: func(r *models.Room) []any {
		return []any{&r.ID, &r.Name, &r.Capacity, &r.RoomType, &r.DepartmentID}
	},
	ID: func(r *models.Room) *int64 { return &r.ID },
}

// CourseTable maps models.Course.
var CourseTable = Table[models.Course]{
	Name:    "courses",
	Columns: []string{"code", "name", "credit_hours", "course_type", "department_id"},
	Values: func(c *models.Course) []any {
		return []any{c.Code, c.Name, c.CreditHours, c.CourseType, c.DepartmentID}
	},
	Targets: func(c *models.Course) []any {
		return []any{&c.ID, &c.Code, &c.Name, &c.CreditHours, &c.CourseType, &c.DepartmentID}
	},
	ID: func(c *models.Course) *int64 { return &c.ID },
}

// TeacherCourseAssignmentTable maps models.TeacherCourseAssignment.
var TeacherCourseAssignmentTable = Table[models.TeacherCourseAssignment]{
	Name:    "teacher_course_assignments",
	Columns: []string{"teacher_id", "course_id"},
	Values: func(a *models.TeacherCourseAssignment) []any {
		return []any{a.TeacherID, a.CourseID}
	},
	Targets: func(a *models.TeacherCourseAssignment) []any {
		return []any{&a.ID, &a.TeacherID, &a.CourseID}
	},
	ID: func(a *models.TeacherCourseAssignment) *int64 { return &a.ID },
}

// BatchCourseTeacherAssignmentTable maps models.BatchCourseTeacherAssignment.
var BatchCourseTeacherAssignmentTable = Table[models.BatchCourseTeacherAssignment]{
	Name:    "batch_course_teacher_assignments",
	Columns: []string{"batch_id", "course_id", "teacher_id", "section_id"},
	Values: func(a *models.BatchCourseTeacherAssignment) []any {
		return []any{a.BatchID, a.CourseID, a.TeacherID, a.SectionID}
	},
	Targets: func(a *models.BatchCourseTeacherAssignment) []any {
		return []any{&a.ID, &a.BatchID, &a.CourseID, &a.TeacherID, &a.SectionID}
	},
	ID: func(a *models.BatchCourseTeacherAssignment) *int64 { return &a.ID },
}

// CompensatoryTable maps models.Compensatory.
var CompensatoryTable = Table[models.Compensatory]{
	Name:    "compensatory",
	Columns: []string{"section_id", "course_id", "day", "reason"},
	Values: func(c *models.Compensatory) []any {
		return []any{c.SectionID, c.CourseID, c.Day, c.Reason}
	},
	Targets: func(c *models.Compensatory) []any {
		return []any{&c.ID, &c.SectionID, &c.CourseID, &c.Day, &c.Reason}
	},
	ID: func(c *models.Compensatory) *int64 { return &c.ID },
}

// CoursePreferenceConstraintsTable maps models.CoursePreferenceConstraints.
var CoursePreferenceConstraintsTable = Table[models.CoursePreferenceConstraints]{
	Name:    "course_preference_constraints",
	Columns: []string{"section_id", "course_id", "teacher_id", "preferred_day", "preferred_time"},
	Values: func(c *models.CoursePreferenceConstraints) []any {
		return []any{c.SectionID, c.CourseID, c.TeacherID, c.PreferredDay, c.PreferredTime}
	},
	Targets: func(c *models.CoursePreferenceConstraints) []any {
		return []any{&c.ID, &c.SectionID, &c.CourseID, &c.TeacherID, &c.PreferredDay, &c.PreferredTime}
	},
	ID: func(c *models.CoursePreferenceConstraints) *int64 { return &c.ID },
}
