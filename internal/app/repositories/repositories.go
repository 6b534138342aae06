package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/timetable/scheduler/internal/app/models"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	AdvisorRepository *AdvisorRepository
	TokenRepository   *TokenRepository

	Departments                   *ResourceRepository[models.Department]
	Years                         *ResourceRepository[models.Year]
	Batches                       *ResourceRepository[models.Batch]
	Sections                      *ResourceRepository[models.Section]
	Teachers                      *ResourceRepository[models.Teacher]
	Rooms                         *ResourceRepository[models.Room]
	Courses                       *ResourceRepository[models.Course]
	TeacherCourseAssignments      *ResourceRepository[models.TeacherCourseAssignment]
	BatchCourseTeacherAssignments *ResourceRepository[models.BatchCourseTeacherAssignment]
	Compensatory                  *ResourceRepository[models.Compensatory]
	CoursePreferenceConstraints   *ResourceRepository[models.CoursePreferenceConstraints]
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(pool),
		AdvisorRepository: NewAdvisorRepository(pool),
		TokenRepository:   NewTokenRepository(pool),

		Departments:                   NewResourceRepository(pool, DepartmentTable),
		Years:                         NewResourceRepository(pool, YearTable),
		Batches:                       NewResourceRepository(pool, BatchTable),
		Sections:                      NewResourceRepository(pool, SectionTable),
		Teachers:                      NewResourceRepository(pool, TeacherTable),
		Rooms:                         NewResourceRepository(pool, RoomTable),
		Courses:                       NewResourceRepository(pool, CourseTable),
		TeacherCourseAssignments:      NewResourceRepository(pool, TeacherCourseAssignmentTable),
		BatchCourseTeacherAssignments: NewResourceRepository(pool, BatchCourseTeacherAssignmentTable),
		Compensatory:                  NewResourceRepository(pool, CompensatoryTable),
		CoursePreferenceConstraints:   NewResourceRepository(pool, CoursePreferenceConstraintsTable),
	}
}
