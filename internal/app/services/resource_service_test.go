package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/app/repositories"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/helpers"
	"github.com/timetable/scheduler/internal/testutil"
)

func newCourseService() *services.ResourceService[models.Course] {
	store := testutil.NewResources(repositories.CourseTable)
	return services.NewResourceService[models.Course]("course", store, zerolog.Nop())
}

func TestResourceCreateValidates(t *testing.T) {
	ctx := context.Background()
	svc := newCourseService()

	err := svc.Create(ctx, &models.Course{Name: "Data Structures", CourseType: models.CourseTheory})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "code", verrs[0].Field())

	err = svc.Create(ctx, &models.Course{Code: "CS-201", Name: "DS", CourseType: "seminar"})
	assert.ErrorAs(t, err, &verrs)

	err = svc.Create(ctx, &models.Course{Code: "CS-201", Name: "DS", CourseType: models.CourseTheory, CreditHours: 9})
	assert.ErrorAs(t, err, &verrs)

	course := &models.Course{Code: "CS-201", Name: "DS", CourseType: models.CourseTheory, CreditHours: 3}
	require.NoError(t, svc.Create(ctx, course))
	assert.Equal(t, int64(1), course.ID)
}

func TestResourcePatchKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	svc := newCourseService()
	course := &models.Course{Code: "CS-201", Name: "Data Structures", CourseType: models.CourseTheory, CreditHours: 3}
	require.NoError(t, svc.Create(ctx, course))

	patched, err := svc.Patch(ctx, course.ID, func(c *models.Course) error {
		return json.Unmarshal([]byte(`{"credit_hours": 4}`), c)
	})
	require.NoError(t, err)
	assert.Equal(t, 4, patched.CreditHours)
	assert.Equal(t, "CS-201", patched.Code)
	assert.Equal(t, "Data Structures", patched.Name)

	stored, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.CreditHours)
	assert.Equal(t, "Data Structures", stored.Name)
}

func TestResourcePatchValidatesMergedResult(t *testing.T) {
	ctx := context.Background()
	svc := newCourseService()
	course := &models.Course{Code: "CS-201", Name: "DS", CourseType: models.CourseTheory}
	require.NoError(t, svc.Create(ctx, course))

	_, err := svc.Patch(ctx, course.ID, func(c *models.Course) error {
		return json.Unmarshal([]byte(`{"name": ""}`), c)
	})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	stored, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "DS", stored.Name)
}

func TestResourceUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newCourseService()
	course := &models.Course{Code: "CS-201", Name: "DS", CourseType: models.CourseTheory}
	require.NoError(t, svc.Create(ctx, course))

	err := svc.Update(ctx, course.ID, &models.Course{Name: "No code", CourseType: models.CourseLab})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	replacement := &models.Course{Code: "CS-202", Name: "Algorithms", CourseType: models.CourseLab}
	require.NoError(t, svc.Update(ctx, course.ID, replacement))
	assert.Equal(t, course.ID, replacement.ID)

	err = svc.Update(ctx, 99, replacement)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	require.NoError(t, svc.Delete(ctx, course.ID))
	_, err = svc.Get(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, course.ID), apperrors.ErrResourceNotFound)
}

func TestResourceListPagination(t *testing.T) {
	ctx := context.Background()
	svc := newCourseService()
	for _, code := range []string{"A", "B", "C", "D", "E"} {
		require.NoError(t, svc.Create(ctx, &models.Course{Code: code, Name: code, CourseType: models.CourseTheory}))
	}

	all, total, err := svc.List(ctx, helpers.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, all, 5)
	assert.Equal(t, "A", all[0].Code)

	page, total, err := svc.List(ctx, helpers.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "C", page[0].Code)
	assert.Equal(t, "D", page[1].Code)
}
