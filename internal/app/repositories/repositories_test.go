package repositories

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/pkg/helpers"
)

func TestResourceListQuery(t *testing.T) {
	repo := NewResourceRepository(nil, DepartmentTable)

	sql, args, err := repo.listQuery(helpers.Page{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM departments ORDER BY id ASC", sql)
	assert.Empty(t, args)

	sql, _, err = repo.listQuery(helpers.Page{Number: 3, Size: 20}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM departments ORDER BY id ASC LIMIT 20 OFFSET 40", sql)

	sql, _, err = repo.listQuery(helpers.Page{Number: math.MaxInt, Size: 16}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM departments ORDER BY id ASC LIMIT 16 OFFSET 34359738336", sql)

	sql, _, err = repo.listQuery(helpers.Page{Number: math.MaxInt / 10, Size: 100}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM departments ORDER BY id ASC LIMIT 100 OFFSET 214748364600", sql)
}

func TestResourceInsertQuery(t *testing.T) {
	repo := NewResourceRepository(nil, RoomTable)
	dept := int64(4)
	room := &models.Room{Name: "CS-101", Capacity: 60, RoomType: models.RoomLecture, DepartmentID: &dept}

	sql, args, err := repo.insertQuery(room)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO rooms (name,capacity,room_type,department_id) VALUES ($1,$2,$3,$4) RETURNING id", sql)
	assert.Equal(t, []any{"CS-101", 60, models.RoomLecture, &dept}, args)
}

func TestResourceUpdateQuery(t *testing.T) {
	repo := NewResourceRepository(nil, DepartmentTable)

	sql, args, err := repo.updateQuery(&models.Department{ID: 9, Name: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE departments SET name = $1 WHERE id = $2", sql)
	assert.Equal(t, []any{"Physics", int64(9)}, args)
}

func TestTablesAreConsistent(t *testing.T) {
	check := func(name string, columns, values, targets int) {
		t.Helper()
		assert.Equal(t, columns, values, "%s values", name)
		assert.Equal(t, columns+1, targets, "%s targets", name)
	}

	check(DepartmentTable.Name, len(DepartmentTable.Columns), len(DepartmentTable.Values(&models.Department{})), len(DepartmentTable.Targets(&models.Department{})))
	check(YearTable.Name, len(YearTable.Columns), len(YearTable.Values(&models.Year{})), len(YearTable.Targets(&models.Year{})))
	check(BatchTable.Name, len(BatchTable.Columns), len(BatchTable.Values(&models.Batch{})), len(BatchTable.Targets(&models.Batch{})))
	check(SectionTable.Name, len(SectionTable.Columns), len(SectionTable.Values(&models.Section{})), len(SectionTable.Targets(&models.Section{})))
	check(TeacherTable.Name, len(TeacherTable.Columns), len(TeacherTable.Values(&models.Teacher{})), len(TeacherTable.Targets(&models.Teacher{})))
	check(RoomTable.Name, len(RoomTable.Columns), len(RoomTable.Values(&models.Room{})), len(RoomTable.Targets(&models.Room{})))
	check(CourseTable.Name, len(CourseTable.Columns), len(CourseTable.Values(&models.Course{})), len(CourseTable.Targets(&models.Course{})))
	check(TeacherCourseAssignmentTable.Name, len(TeacherCourseAssignmentTable.Columns),
		len(TeacherCourseAssignmentTable.Values(&models.TeacherCourseAssignment{})),
		len(TeacherCourseAssignmentTable.Targets(&models.TeacherCourseAssignment{})))
	check(BatchCourseTeacherAssignmentTable.Name, len(BatchCourseTeacherAssignmentTable.Columns),
		len(BatchCourseTeacherAssignmentTable.Values(&models.BatchCourseTeacherAssignment{})),
		len(BatchCourseTeacherAssignmentTable.Targets(&models.BatchCourseTeacherAssignment{})))
	check(CompensatoryTable.Name, len(CompensatoryTable.Columns),
		len(CompensatoryTable.Values(&models.Compensatory{})),
		len(CompensatoryTable.Targets(&models.Compensatory{})))
	check(CoursePreferenceConstraintsTable.Name, len(CoursePreferenceConstraintsTable.Columns),
		len(CoursePreferenceConstraintsTable.Values(&models.CoursePreferenceConstraints{})),
		len(CoursePreferenceConstraintsTable.Targets(&models.CoursePreferenceConstraints{})))
}

func TestBlacklistQueryIsSingleUpsert(t *testing.T) {
	repo := NewTokenRepository(nil)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	token := &models.RefreshToken{JTI: "abc", UserID: 5, ExpiresAt: at.Add(time.Hour)}

	sql, args, err := repo.blacklistQuery(token, at)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO refresh_tokens (jti,user_id,expires_at,created_at,blacklisted_at) VALUES ($1,$2,$3,$4,$5)")
	assert.Contains(t, sql, "ON CONFLICT (jti) DO UPDATE SET blacklisted_at = EXCLUDED.blacklisted_at")
	assert.Contains(t, sql, "WHERE refresh_tokens.blacklisted_at IS NULL RETURNING id")
	assert.Equal(t, []any{"abc", int64(5), at.Add(time.Hour), at, at}, args)
}

func TestAdvisorSelectQuery(t *testing.T) {
	repo := NewAdvisorRepository(nil)

	sql, _, err := repo.selectQuery().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM advisors a JOIN users u ON u.id = a.user_id")
	assert.Contains(t, sql, "a.deo_id")
}
