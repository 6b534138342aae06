package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentListsEveryRoute(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	resources := []string{
		"/departments", "/years", "/batches", "/sections", "/teachers", "/rooms",
		"/courses", "/teacher-course-assignments", "/batch-course-teacher-assignments",
		"/compensatory", "/course-preference-constraints", "/advisors",
	}
	for _, path := range resources {
		t.Run(path, func(t *testing.T) {
			collection, ok := doc.Paths[path]
			require.True(t, ok, "missing %s", path)
			assert.Contains(t, collection, "get")
			assert.Contains(t, collection, "post")

			item, ok := doc.Paths[path+"/{id}"]
			require.True(t, ok, "missing %s/{id}", path)
			for _, method := range []string{"get", "put", "patch", "delete"} {
				assert.Contains(t, item, method)
			}
		})
	}

	for _, path := range []string{"/auth/deo/login", "/auth/advisor/login", "/auth/deo/logout", "/auth/advisor/logout", "/auth/token/refresh", "/health"} {
		assert.Contains(t, doc.Paths, path)
	}
}
