package apitests

import (
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoInteropTests covers relationships across todos, categories, and projects,
// checking both the forward listing (from the owning resource) and the
// reverse listing (from the related resource looking back). The reverse
// todo-category direction is known to differ between builds of the service
// and is recorded as a soft result.
func DoInteropTests(t *T) {
	t.Run("todo to category forward and reverse listing", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("InteropCatTodo"), false, "clean-cat-run")
		catID := t.CreateCategory(uniqueTitle("C_Interop"), "category for clean run")
		require.NotEqual(t, "", todoID)
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteTodo(todoID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDelete("/todos/" + todoID + "/categories/" + catID)

		t.RequireStatus(t.Get("/todos/"+todoID+"/categories"), 200)
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201)

		forward := t.Get("/todos/" + todoID + "/categories")
		t.RequireStatus(forward, 200)
		assert.True(t, containsID(forward.JSON().GetByKey("categories"), catID),
			"category %s missing from todo's forward listing", catID)

		reverse := t.Get("/categories/" + catID + "/todos")
		t.RequireStatus(reverse, 200)
		linked := containsID(reverse.JSON().GetByKey("todos"), todoID)
		t.Assume(linked,
			"reverse category listing did not include todo %s after linking (observed API behavior)", todoID)
	})

	t.Run("todo to project forward and reverse listing", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("InteropProjTodo"), false, "clean-proj-run")
		projID := t.CreateProject(uniqueTitle("P_Interop"), "project for clean run", false)
		require.NotEqual(t, "", todoID)
		require.NotEqual(t, "", projID)
		defer t.SafeDeleteTodo(todoID)
		defer t.SafeDeleteProject(projID)
		defer t.SafeDelete("/todos/" + todoID + "/tasksof/" + projID)

		t.RequireStatus(t.Get("/todos/"+todoID+"/tasksof"), 200)
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/tasksof", relationshipJSON(projID)), 200, 201)

		forward := t.Get("/todos/" + todoID + "/tasksof")
		t.RequireStatus(forward, 200)
		assert.True(t, containsID(forward.JSON().GetByKey("projects"), projID),
			"project %s missing from todo's tasksof listing", projID)

		// The project-side reverse of tasksof is /projects/{id}/tasks.
		reverse := t.Get("/projects/" + projID + "/tasks")
		t.RequireStatus(reverse, 200)
		assert.True(t, containsID(reverse.JSON().GetByKey("todos"), todoID),
			"todo %s missing from project's tasks listing", todoID)
	})

	t.Run("deleting linked project and category leaves the todo intact", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("ChainTodo"), false, "chain")
		catID := t.CreateCategory(uniqueTitle("C_Chain"), "chain")
		projID := t.CreateProject(uniqueTitle("P_Chain"), "chain", false)
		require.NotEqual(t, "", todoID)
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", projID)
		defer t.SafeDeleteTodo(todoID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteProject(projID)

		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201)
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/tasksof", relationshipJSON(projID)), 200, 201)

		t.RequireStatus(t.Delete("/projects/"+projID), 200)
		t.RequireStatus(t.Get("/todos/"+todoID), 200)

		t.RequireStatus(t.Delete("/categories/"+catID), 200)
		t.RequireStatus(t.Get("/todos/"+todoID), 200)
	})

	t.Run("HEAD and OPTIONS smoke across endpoints", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("Proto"), false, "proto")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.Options("/projects"), 200)
		t.RequireStatus(t.Options("/categories"), 200)
		t.RequireStatus(t.Options("/todos/"+todoID+"/tasksof"), 200)
		t.RequireStatus(t.Options("/todos/"+todoID+"/categories"), 200)
		t.RequireStatus(t.Head("/todos"), 200)
	})

	t.Run("duplicate category link is graceful", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("DupCat"), false, "dup")
		catID := t.CreateCategory(uniqueTitle("DupCategory"), "dup")
		require.NotEqual(t, "", todoID)
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteTodo(todoID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDelete("/todos/" + todoID + "/categories/" + catID)

		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201)
		// Relinking the same pair must not 500; the exact status varies by build.
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201, 400, 409)
	})

	t.Run("malformed relationship payloads return a client error", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("BadRel"), false, "bad")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", `{}`), 400, 422)
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/tasksof", `{"id":"abc"}`), 400, 404, 422)
	})

	t.Run("attaching nonexistent related entities returns a client error", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("NoRel"), false, "no-rel")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON("9999999")), 400, 404)
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/tasksof", relationshipJSON("9999999")), 400, 404)
	})

	t.Run("GET todo as XML via Accept header", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("XML-Accept"), false, "xml")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		resp := t.GetAccept("/todos/"+todoID, "application/xml")
		t.RequireStatus(resp, 200)
		assert.True(t, strings.Contains(resp.Header.Get("Content-Type"), "xml"),
			"expected an XML content type, got %q", resp.Header.Get("Content-Type"))
	})
}
