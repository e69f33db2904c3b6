package apitests

import (
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoTodoTests covers CRUD, payload validation, and relationship smoke checks
// for the /todos API. Every subtest wipes all server collections when it
// finishes so the tests stay order-independent.
func DoTodoTests(t *T) {
	t.WipeAfterEachTest()

	t.Run("collection", doTodoCollectionTests)
	t.Run("item", doTodoItemTests)
	t.Run("payload validation", doTodoPayloadTests)
	t.Run("categories relationship", doTodoCategoryRelationshipTests)
	t.Run("tasksof relationship", doTodoProjectRelationshipTests)
}

func doTodoCollectionTests(t *T) {
	t.Run("GET returns 200 with a body", func(t *T) {
		resp := t.Get("/todos")
		t.RequireStatus(resp, 200)
		assert.NotEqual(t, ldvalue.Null(), resp.JSON(), "expected a JSON body")
	})

	t.Run("HEAD returns 200", func(t *T) {
		t.RequireStatus(t.Head("/todos"), 200)
	})

	t.Run("OPTIONS returns 200", func(t *T) {
		t.RequireStatus(t.Options("/todos"), 200)
	})

	t.Run("title filter returns the created todo", func(t *T) {
		title := uniqueTitle("filter")
		id := t.CreateTodo(title, false, "filter-check")
		defer t.SafeDeleteTodo(id)

		resp := t.GetQuery("/todos", url.Values{"title": []string{title}})
		t.RequireStatus(resp, 200)
		assert.NotEqual(t, "", findIDByTitle(resp.JSON().GetByKey("todos"), title),
			"created todo not present in filtered listing")
	})

	t.Run("title filter returns only matching todos", func(t *T) {
		title := uniqueTitle("filter-only")
		id := t.CreateTodo(title, false, "filter-only")
		defer t.SafeDeleteTodo(id)

		resp := t.GetQuery("/todos", url.Values{"title": []string{title}})
		t.RequireStatus(resp, 200)
		todos := resp.JSON().GetByKey("todos")
		for i := 0; i < todos.Count(); i++ {
			assert.Equal(t, title, todos.GetByIndex(i).GetByKey("title").StringValue(),
				"filtered listing contained a todo with another title")
		}
	})

	// The service binds only GET, HEAD, POST, and OPTIONS on the collection;
	// some builds answer 404 rather than 405 for unbound verbs.
	t.Run("PUT is not allowed", func(t *T) {
		resp := t.PutJSON("/todos", `{"title":"nope"}`)
		t.RequireStatus(resp, 405, 404)
	})

	t.Run("DELETE is not allowed", func(t *T) {
		t.RequireStatus(t.Delete("/todos"), 405, 404)
	})

	t.Run("PATCH is not allowed", func(t *T) {
		t.RequireStatus(t.Patch("/todos"), 405, 404)
	})
}

func doTodoItemTests(t *T) {
	t.Run("POST with minimal payload defaults doneStatus to false", func(t *T) {
		resp := t.PostJSON("/todos", `{"title":"Minimal"}`)
		t.RequireStatus(resp, 200, 201)

		id := extractEntityID(resp, "todos")
		if id == "" {
			id = t.findTodoIDByTitle("Minimal")
		}
		require.NotEqual(t, "", id, "could not recover ID of created todo")
		defer t.SafeDeleteTodo(id)

		get := t.Get("/todos/" + id)
		t.RequireStatus(get, 200)
		done := get.JSON().GetByKey("todos").GetByIndex(0).GetByKey("doneStatus")
		assert.True(t, boolish(done, false), "doneStatus should default to false, got %s", done.JSONString())
	})

	t.Run("GET existing returns 200, then 404 after delete", func(t *T) {
		id := t.CreateTodo(uniqueTitle("get-existing"), false, "ok")
		require.NotEqual(t, "", id)

		resp := t.Get("/todos/" + id)
		t.RequireStatus(resp, 200)
		assert.Equal(t, id, stringifyID(resp.JSON().GetByKey("todos").GetByIndex(0).GetByKey("id")))

		t.SafeDeleteTodo(id)
		t.RequireStatus(t.Get("/todos/"+id), 404)
	})

	t.Run("HEAD existing returns 200, missing returns 404", func(t *T) {
		id := t.CreateTodo(uniqueTitle("head-existing"), false, "ok")
		require.NotEqual(t, "", id)

		t.RequireStatus(t.Head("/todos/"+id), 200)
		t.SafeDeleteTodo(id)
		t.RequireStatus(t.Head("/todos/"+id), 404)
	})

	t.Run("PUT replaces fields and round-trips doneStatus", func(t *T) {
		id := t.CreateTodo(uniqueTitle("put-me"), false, "before")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteTodo(id)

		resp := t.PutJSON("/todos/"+id, todoJSON("after", true, "changed"))
		t.RequireStatus(resp, 200)
		body := resp.JSON()
		assert.Equal(t, "after", body.GetByKey("title").StringValue())
		assert.True(t, boolish(body.GetByKey("doneStatus"), true),
			"doneStatus not true after PUT, got %s", body.GetByKey("doneStatus").JSONString())

		get := t.Get("/todos/" + id)
		t.RequireStatus(get, 200)
		done := get.JSON().GetByKey("todos").GetByIndex(0).GetByKey("doneStatus")
		assert.True(t, boolish(done, true), "doneStatus did not round-trip, got %s", done.JSONString())
	})

	t.Run("POST on an item amends fields", func(t *T) {
		id := t.CreateTodo(uniqueTitle("post-amend"), false, "desc")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteTodo(id)

		resp := t.PostJSON("/todos/"+id, `{"description":"amended-only"}`)
		t.RequireStatus(resp, 200)
		assert.Equal(t, "amended-only", resp.JSON().GetByKey("description").StringValue())
	})

	t.Run("second DELETE returns 404 or 400, never 200", func(t *T) {
		id := t.CreateTodo(uniqueTitle("to-delete"), false, "desc")
		require.NotEqual(t, "", id)

		t.RequireStatus(t.Delete("/todos/"+id), 200)
		t.RequireStatus(t.Delete("/todos/"+id), 404, 400)
	})

	t.Run("IDs are not reused after delete", func(t *T) {
		first := t.CreateTodo(uniqueTitle("id-sanity"), false, "one")
		require.NotEqual(t, "", first)
		t.RequireStatus(t.Delete("/todos/"+first), 200)

		second := t.CreateTodo(uniqueTitle("id-sanity"), false, "two")
		require.NotEqual(t, "", second)
		defer t.SafeDeleteTodo(second)

		assert.NotEqual(t, first, second, "server reused the ID of a deleted todo")
	})
}

func doTodoPayloadTests(t *T) {
	t.Run("XML payload creates a todo", func(t *T) {
		id := t.CreateTodoXML(uniqueTitle("xml-created"), false, "xml payload")
		require.NotEqual(t, "", id, "could not recover ID of XML-created todo")
		defer t.SafeDeleteTodo(id)

		t.RequireStatus(t.Get("/todos/"+id), 200)
	})

	t.Run("malformed JSON returns a client error", func(t *T) {
		resp := t.PostJSON("/todos", `{"title":"bad-json", "doneStatus":"false"`) // missing closing brace
		t.RequireStatus(resp, 400, 415, 422)
	})

	t.Run("malformed XML returns a client error", func(t *T) {
		resp := t.PostXML("/todos", `<todo><title>bad</title><doneStatus>false</todo>`) // unbalanced tags
		t.RequireStatus(resp, 400, 415, 422)
	})

	t.Run("non-boolean doneStatus returns 400", func(t *T) {
		resp := t.PostJSON("/todos", `{"title":"Invalid","doneStatus":"maybe"}`)
		t.RequireStatus(resp, 400)
	})

	t.Run("missing title returns 400", func(t *T) {
		resp := t.PostJSON("/todos", `{"doneStatus":false,"description":"no title"}`)
		t.RequireStatus(resp, 400)
	})

	t.Run("omitted description comes back absent, null, or empty", func(t *T) {
		title := uniqueTitle("nodesc")
		resp := t.PostJSON("/todos", todoJSON(title, false, ""))
		t.RequireStatus(resp, 200, 201)
		id := extractEntityID(resp, "todos")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteTodo(id)

		get := t.Get("/todos/" + id)
		t.RequireStatus(get, 200)
		item := get.JSON().GetByKey("todos").GetByIndex(0)
		assert.Equal(t, title, item.GetByKey("title").StringValue())
		desc := item.GetByKey("description")
		assert.True(t, desc.IsNull() || desc.Type() == ldvalue.StringType,
			"description came back with unexpected type: %s", desc.JSONString())
	})
}

func doTodoCategoryRelationshipTests(t *T) {
	t.Run("attach, list, and detach", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-cat"), false, "smoke")
		catID := t.CreateCategory(uniqueTitle("cat"), "smoke-rel")
		require.NotEqual(t, "", todoID)
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteTodo(todoID)
		defer t.SafeDeleteCategory(catID)

		t.RequireStatus(t.Get("/todos/"+todoID+"/categories"), 200)
		t.RequireStatus(t.Head("/todos/"+todoID+"/categories"), 200)

		attach := t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID))
		t.RequireStatus(attach, 200, 201)

		listing := t.Get("/todos/" + todoID + "/categories")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("categories"), catID),
			"attached category %s missing from listing", catID)

		// Detach is idempotent-tolerant: some builds answer 404 here.
		t.RequireStatus(t.Delete("/todos/"+todoID+"/categories/"+catID), 200, 404)
		t.RequireStatus(t.Delete("/todos/"+todoID+"/categories/999999"), 404)
	})

	t.Run("OPTIONS returns 200", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-options"), false, "smoke")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.Options("/todos/"+todoID+"/categories"), 200)
		t.RequireStatus(t.Options("/todos/"+todoID+"/tasksof"), 200)
	})

	t.Run("verbs other than GET, HEAD, and POST are rejected", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-cat-405"), false, "smoke")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.PutJSON("/todos/"+todoID+"/categories", `{"id":"1"}`), 405, 404)
		t.RequireStatus(t.Patch("/todos/"+todoID+"/categories"), 405, 404)
		t.RequireStatus(t.Delete("/todos/"+todoID+"/categories"), 405, 404)
		// POST on the nested item path is not bound either.
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories/1", `{"dummy":"x"}`), 405, 404)
	})

	t.Run("attaching a nonexistent category returns a client error", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-cat-missing"), false, "smoke")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		resp := t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON("99999999"))
		t.RequireStatus(resp, 400, 404)
	})

	t.Run("attaching the same category twice is graceful", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-cat-double"), false, "smoke")
		catID := t.CreateCategory(uniqueTitle("cat-double"), "rel")
		require.NotEqual(t, "", todoID)
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteTodo(todoID)
		defer t.SafeDeleteCategory(catID)

		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201)
		// Anything but a server error is acceptable for the duplicate.
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201, 400, 409)

		t.RequireStatus(t.Delete("/todos/"+todoID+"/categories/"+catID), 200, 404)
	})
}

func doTodoProjectRelationshipTests(t *T) {
	t.Run("attach, list, and detach", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-tasksof"), false, "smoke")
		projectID := t.CreateProject(uniqueTitle("proj"), "smoke-rel", false)
		require.NotEqual(t, "", todoID)
		require.NotEqual(t, "", projectID)
		defer t.SafeDeleteTodo(todoID)
		defer t.SafeDeleteProject(projectID)

		t.RequireStatus(t.Get("/todos/"+todoID+"/tasksof"), 200)
		t.RequireStatus(t.Head("/todos/"+todoID+"/tasksof"), 200)

		attach := t.PostJSON("/todos/"+todoID+"/tasksof", relationshipJSON(projectID))
		t.RequireStatus(attach, 200, 201)

		listing := t.Get("/todos/" + todoID + "/tasksof")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("projects"), projectID),
			"attached project %s missing from tasksof listing", projectID)

		t.RequireStatus(t.Delete("/todos/"+todoID+"/tasksof/"+projectID), 200, 404)
		t.RequireStatus(t.Delete("/todos/"+todoID+"/tasksof/999999"), 404)
	})

	t.Run("verbs other than GET, HEAD, and POST are rejected", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-tasksof-405"), false, "smoke")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.PutJSON("/todos/"+todoID+"/tasksof", `{"id":"1"}`), 405, 404)
		t.RequireStatus(t.Patch("/todos/"+todoID+"/tasksof"), 405, 404)
		t.RequireStatus(t.Delete("/todos/"+todoID+"/tasksof"), 405, 404)
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/tasksof/1", `{"dummy":"x"}`), 405, 404)
	})

	t.Run("attaching a nonexistent project returns a client error", func(t *T) {
		todoID := t.CreateTodo(uniqueTitle("rel-proj-missing"), false, "smoke")
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		resp := t.PostJSON("/todos/"+todoID+"/tasksof", relationshipJSON("99999999"))
		t.RequireStatus(resp, 400, 404)
	})
}
