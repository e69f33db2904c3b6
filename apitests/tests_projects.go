package apitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoProjectTests covers CRUD, relationships, and payload validation for the
// /projects API.
func DoProjectTests(t *T) {
	t.Run("CRUD", doProjectCRUDTests)
	t.Run("relationships", doProjectRelationshipTests)
	t.Run("validation", doProjectValidationTests)
}

func doProjectCRUDTests(t *T) {
	t.Run("GET returns the project list", func(t *T) {
		id := t.CreateProject(uniqueTitle("ProjList"), "test", false)
		require.NotEqual(t, "", id)
		defer t.SafeDeleteProject(id)

		resp := t.Get("/projects")
		t.RequireStatus(resp, 200)
		projects := resp.JSON().GetByKey("projects")
		require.False(t, projects.IsNull(), "no projects array in listing")
		assert.True(t, projects.Count() >= 1)
	})

	t.Run("POST creates with completed defaulting to false", func(t *T) {
		title := uniqueTitle("ProjCreate")
		resp := t.PostJSON("/projects", `{"title":"`+title+`","description":"auto test"}`)
		t.RequireStatus(resp, 200, 201)
		id := extractEntityID(resp, "projects")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteProject(id)

		get := t.Get("/projects/" + id)
		t.RequireStatus(get, 200)
		completed := get.JSON().GetByKey("projects").GetByIndex(0).GetByKey("completed")
		assert.True(t, boolish(completed, false),
			"completed should default to false, got %s", completed.JSONString())
	})

	t.Run("GET by ID returns 200, then 404 after delete", func(t *T) {
		id := t.CreateProject(uniqueTitle("ProjGet"), "check", false)
		require.NotEqual(t, "", id)

		resp := t.Get("/projects/" + id)
		t.RequireStatus(resp, 200)
		assert.Equal(t, id, stringifyID(resp.JSON().GetByKey("projects").GetByIndex(0).GetByKey("id")))

		t.RequireStatus(t.Delete("/projects/"+id), 200)
		t.RequireStatus(t.Get("/projects/"+id), 404)
	})

	t.Run("PUT updates all fields", func(t *T) {
		id := t.CreateProject(uniqueTitle("ProjPut"), "before", false)
		require.NotEqual(t, "", id)
		defer t.SafeDeleteProject(id)

		updated := uniqueTitle("Updated")
		resp := t.PutJSON("/projects/"+id, projectJSON(updated, "new", true))
		t.RequireStatus(resp, 200, 201)
		body := resp.JSON()
		assert.Equal(t, updated, body.GetByKey("title").StringValue())
		assert.True(t, boolish(body.GetByKey("completed"), true),
			"completed not true after PUT, got %s", body.GetByKey("completed").JSONString())
	})

	t.Run("POST on an existing ID amends fields", func(t *T) {
		id := t.CreateProject(uniqueTitle("ProjPostPut"), "old", false)
		require.NotEqual(t, "", id)
		defer t.SafeDeleteProject(id)

		t.RequireStatus(t.PostJSON("/projects/"+id, `{"description":"patched"}`), 200, 201)
	})

	t.Run("DELETE nonexistent returns 404", func(t *T) {
		t.RequireStatus(t.Delete("/projects/9999999"), 404)
	})

	t.Run("HEAD and OPTIONS return 200", func(t *T) {
		t.RequireStatus(t.Head("/projects"), 200)
		t.RequireStatus(t.Options("/projects"), 200)
	})

	t.Run("IDs are not reused after delete", func(t *T) {
		first := t.CreateProject(uniqueTitle("ProjA"), "a", false)
		require.NotEqual(t, "", first)
		t.RequireStatus(t.Delete("/projects/"+first), 200)

		second := t.CreateProject(uniqueTitle("ProjB"), "b", false)
		require.NotEqual(t, "", second)
		defer t.SafeDeleteProject(second)

		assert.NotEqual(t, first, second, "server reused the ID of a deleted project")
	})
}

func doProjectRelationshipTests(t *T) {
	t.Run("tasks link and unlink", func(t *T) {
		projID := t.CreateProject(uniqueTitle("RelProj"), "link", false)
		todoID := t.CreateTodo(uniqueTitle("RelTodo"), false, "")
		require.NotEqual(t, "", projID)
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteProject(projID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.PostJSON("/projects/"+projID+"/tasks", relationshipJSON(todoID)), 200, 201)

		// The tasks listing is rooted at "todos", not "tasks".
		listing := t.Get("/projects/" + projID + "/tasks")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("todos"), todoID),
			"linked todo %s missing from tasks listing", todoID)

		t.RequireStatus(t.Delete("/projects/"+projID+"/tasks/"+todoID), 200, 404)
	})

	t.Run("categories link and unlink", func(t *T) {
		projID := t.CreateProject(uniqueTitle("RelProjCat"), "linkcat", false)
		catID := t.CreateCategory(uniqueTitle("RelCat"), "")
		require.NotEqual(t, "", projID)
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteProject(projID)
		defer t.SafeDeleteCategory(catID)

		t.RequireStatus(t.PostJSON("/projects/"+projID+"/categories", relationshipJSON(catID)), 200, 201)

		listing := t.Get("/projects/" + projID + "/categories")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("categories"), catID),
			"linked category %s missing from project's listing", catID)

		t.RequireStatus(t.Delete("/projects/"+projID+"/categories/"+catID), 200, 404)
	})
}

func doProjectValidationTests(t *T) {
	t.Run("POST without a title is allowed", func(t *T) {
		// Unlike todos, projects do not require a title.
		resp := t.PostJSON("/projects", `{"description":"no title"}`)
		t.RequireStatus(resp, 201)

		if id := extractEntityID(resp, "projects"); id != "" {
			t.SafeDeleteProject(id)
		}
	})

	t.Run("malformed JSON returns a client error", func(t *T) {
		resp := t.PostJSON("/projects", `{"title":"BadJson", "completed":"false"`) // missing closing brace
		t.RequireStatus(resp, 400, 415, 422)
	})
}
