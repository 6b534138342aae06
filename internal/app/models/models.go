package models

// Role is the login identity's role. Values match the stored column.
type Role string

const (
	RoleDEO     Role = "deo"
	RoleAdvisor Role = "advisor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDEO || r == RoleAdvisor
}

// Seniority is the academic rank shared by advisors and teachers.
type Seniority string

const (
	SeniorityProfessor          Seniority = "professor"
	SeniorityAssociateProfessor Seniority = "associate_professor"
	SeniorityAssistantProfessor Seniority = "assistant_professor"
	SeniorityLecturer           Seniority = "lecturer"
	SeniorityITManagerSr        Seniority = "it_manager_sr"
	SeniorityITManagerJr        Seniority = "it_manager_jr"
)

// SeniorityLabels holds the display label of each seniority value.
var SeniorityLabels = map[Seniority]string{
	SeniorityProfessor:          "Professor",
	SeniorityAssociateProfessor: "Associate Professor",
	SeniorityAssistantProfessor: "Assistant Professor",
	SeniorityLecturer:           "Lecturer",
	SeniorityITManagerSr:        "IT Manager (Sr)",
	SeniorityITManagerJr:        "IT Manager (Jr)",
}

// AdvisorYear is the study year an advisor is responsible for.
type AdvisorYear string

const (
	YearFirst  AdvisorYear = "first"
	YearSecond AdvisorYear = "second"
	YearThird  AdvisorYear = "third"
	YearFourth AdvisorYear = "fourth"
)

// Weekday is a teaching day.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// RoomType distinguishes lecture halls from labs.
type RoomType string

const (
	RoomLecture RoomType = "lecture"
	RoomLab     RoomType = "lab"
)

// CourseType distinguishes theory courses from lab courses.
type CourseType string

const (
	CourseTheory CourseType = "theory"
	CourseLab    CourseType = "lab"
)
