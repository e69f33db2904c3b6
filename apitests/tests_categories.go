package apitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoCategoryTests covers CRUD and relationships for /categories. These tests
// clean up their own data instead of relying on the blanket wipe.
func DoCategoryTests(t *T) {
	t.Run("CRUD", doCategoryCRUDTests)
	t.Run("todos relationship", doCategoryTodoRelationshipTests)
	t.Run("projects relationship", doCategoryProjectRelationshipTests)
	t.Run("edge cases", doCategoryEdgeCaseTests)
}

func doCategoryCRUDTests(t *T) {
	t.Run("GET returns the category list", func(t *T) {
		id := t.CreateCategory(uniqueTitle("TestCat"), "test")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		resp := t.Get("/categories")
		t.RequireStatus(resp, 200)
		categories := resp.JSON().GetByKey("categories")
		require.False(t, categories.IsNull(), "no categories array in listing")
		assert.True(t, categories.Count() >= 1)
	})

	t.Run("HEAD collection returns 200", func(t *T) {
		t.RequireStatus(t.Head("/categories"), 200)
	})

	t.Run("POST creates a new category", func(t *T) {
		title := uniqueTitle("NewCat")
		resp := t.PostJSON("/categories", categoryJSON(title, "test desc"))
		t.RequireStatus(resp, 200, 201)

		id := extractEntityID(resp, "categories")
		require.NotEqual(t, "", id, "no ID in create response")
		defer t.SafeDeleteCategory(id)

		t.RequireStatus(t.Get("/categories/"+id), 200)
	})

	t.Run("GET by ID returns the category", func(t *T) {
		title := uniqueTitle("GetCat")
		id := t.CreateCategory(title, "get test")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		resp := t.Get("/categories/" + id)
		t.RequireStatus(resp, 200)
		item := resp.JSON().GetByKey("categories").GetByIndex(0)
		assert.Equal(t, id, stringifyID(item.GetByKey("id")))
		assert.Equal(t, title, item.GetByKey("title").StringValue())
	})

	t.Run("GET nonexistent returns 404", func(t *T) {
		t.RequireStatus(t.Get("/categories/999999"), 404)
	})

	t.Run("HEAD by ID returns 200", func(t *T) {
		id := t.CreateCategory(uniqueTitle("HeadCat"), "head test")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		t.RequireStatus(t.Head("/categories/"+id), 200)
	})

	t.Run("PUT updates the category", func(t *T) {
		id := t.CreateCategory(uniqueTitle("PutCat"), "original")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		updated := uniqueTitle("UpdatedCat")
		t.RequireStatus(t.PutJSON("/categories/"+id, categoryJSON(updated, "updated")), 200, 201)

		resp := t.Get("/categories/" + id)
		t.RequireStatus(resp, 200)
		assert.Equal(t, updated,
			resp.JSON().GetByKey("categories").GetByIndex(0).GetByKey("title").StringValue())
	})

	t.Run("PUT with an ID in the body returns 400", func(t *T) {
		id := t.CreateCategory(uniqueTitle("PutBadCat"), "bad put")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		resp := t.PutJSON("/categories/"+id, `{"id":"`+id+`","title":"BadUpdate"}`)
		t.RequireStatus(resp, 400)
	})

	t.Run("POST on an ID acts like PUT", func(t *T) {
		id := t.CreateCategory(uniqueTitle("PostPutCat"), "post put")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		updated := uniqueTitle("PostUpdated")
		t.RequireStatus(t.PostJSON("/categories/"+id, `{"title":"`+updated+`"}`), 200, 201)
	})

	t.Run("POST on an ID with an ID in the body returns 400", func(t *T) {
		id := t.CreateCategory(uniqueTitle("PostBadCat"), "bad post")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		resp := t.PostJSON("/categories/"+id, `{"id":"`+id+`","title":"BadPost"}`)
		t.RequireStatus(resp, 400)
	})

	t.Run("DELETE removes the category", func(t *T) {
		id := t.CreateCategory(uniqueTitle("DelCat"), "delete test")
		require.NotEqual(t, "", id)

		t.RequireStatus(t.Delete("/categories/"+id), 200)
		t.RequireStatus(t.Get("/categories/"+id), 404)
	})

	t.Run("DELETE nonexistent returns 404", func(t *T) {
		t.RequireStatus(t.Delete("/categories/999999"), 404)
	})
}

func doCategoryTodoRelationshipTests(t *T) {
	t.Run("todos linked via the todo side appear in the category's listing", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("CatTodos"), "todos test")
		todoID := t.CreateTodo(uniqueTitle("TodoForCat"), false, "test")
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteTodo(todoID)

		// The category-side endpoint rejects existing IDs, so link via the todo.
		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201)

		listing := t.Get("/categories/" + catID + "/todos")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("todos"), todoID),
			"linked todo %s missing from category's listing", todoID)

		t.DeleteIfExists("/todos/" + todoID + "/categories/" + catID)
	})

	t.Run("nonexistent category's todo listing is 200 and empty, not 404", func(t *T) {
		resp := t.Get("/categories/999999/todos")
		t.RequireStatus(resp, 200)
		todos := resp.JSON().GetByKey("todos")
		assert.True(t, todos.IsNull() || todos.Count() == 0,
			"expected an empty listing, got %s", todos.JSONString())
	})

	t.Run("HEAD todo listing returns 200", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("HeadTodosCat"), "head todos")
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteCategory(catID)

		t.RequireStatus(t.Head("/categories/"+catID+"/todos"), 200)
	})

	// The next two tests record mutually exclusive outcomes for the same
	// operation: attaching an existing todo through the category side fails
	// with 404 on baseline builds but succeeds with 201 on others. Both are
	// kept side by side as soft results until the service documents one.
	t.Run("attach existing todo via category side: expected 404", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("PostTodosCat"), "post todos")
		todoID := t.CreateTodo(uniqueTitle("PostTodo"), false, "post test")
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteTodo(todoID)

		resp := t.PostJSON("/categories/"+catID+"/todos", relationshipJSON(todoID))
		t.Assume(resp.Status == 404,
			"category-side attach of an existing todo returned %d, not the baseline 404", resp.Status)
	})

	t.Run("attach existing todo via category side: observed 201 on some builds", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("PostTodosCat2"), "post todos")
		todoID := t.CreateTodo(uniqueTitle("PostTodo2"), false, "post test")
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteTodo(todoID)

		resp := t.PostJSON("/categories/"+catID+"/todos", relationshipJSON(todoID))
		t.Assume(resp.Status == 201 || resp.Status == 200,
			"category-side attach of an existing todo returned %d, not the observed 201", resp.Status)
		t.DeleteIfExists("/categories/" + catID + "/todos/" + todoID)
	})

	t.Run("POST with a title creates a new todo and links it", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("NewTodoCat"), "new todo")
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteCategory(catID)

		title := uniqueTitle("NewTodo")
		resp := t.PostJSON("/categories/"+catID+"/todos", `{"title":"`+title+`"}`)
		t.RequireStatus(resp, 200, 201)
		newTodoID := extractEntityID(resp, "todos")
		require.NotEqual(t, "", newTodoID, "no ID for todo created through the category")
		defer t.SafeDeleteTodo(newTodoID)

		listing := t.Get("/categories/" + catID + "/todos")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("todos"), newTodoID))

		// The reverse link is not maintained on the builds observed so far.
		reverse := t.Get("/todos/" + newTodoID + "/categories")
		t.RequireStatus(reverse, 200)
		linked := containsID(reverse.JSON().GetByKey("categories"), catID)
		t.Assume(!linked,
			"todo created through the category side unexpectedly showed the reverse link")
	})

	t.Run("detaching via the category side removes the relationship", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("DelRelCat"), "del rel")
		todoID := t.CreateTodo(uniqueTitle("DelRelTodo"), false, "del rel")
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201)
		t.RequireStatus(t.Delete("/categories/"+catID+"/todos/"+todoID), 200)

		listing := t.Get("/categories/" + catID + "/todos")
		t.RequireStatus(listing, 200)
		assert.False(t, containsID(listing.JSON().GetByKey("todos"), todoID),
			"todo %s still listed after detach", todoID)
	})
}

func doCategoryProjectRelationshipTests(t *T) {
	t.Run("projects linked via the project side appear in the category's listing", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("CatProj"), "projects test")
		projID := t.CreateProject(uniqueTitle("ProjForCat"), "test", false)
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", projID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteProject(projID)

		t.RequireStatus(t.PostJSON("/projects/"+projID+"/categories", relationshipJSON(catID)), 200, 201)

		listing := t.Get("/categories/" + catID + "/projects")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("projects"), projID),
			"linked project %s missing from category's listing", projID)

		t.DeleteIfExists("/projects/" + projID + "/categories/" + catID)
	})

	t.Run("HEAD project listing returns 200", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("HeadProjCat"), "head proj")
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteCategory(catID)

		t.RequireStatus(t.Head("/categories/"+catID+"/projects"), 200)
	})

	t.Run("attach existing project via category side: expected 404", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("PostProjCat"), "post proj")
		projID := t.CreateProject(uniqueTitle("PostProj"), "post test", false)
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", projID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteProject(projID)

		resp := t.PostJSON("/categories/"+catID+"/projects", relationshipJSON(projID))
		t.Assume(resp.Status == 404,
			"category-side attach of an existing project returned %d, not the baseline 404", resp.Status)
	})

	t.Run("attach existing project via category side: observed 201 on some builds", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("PostProjCat2"), "post proj")
		projID := t.CreateProject(uniqueTitle("PostProj2"), "post test", false)
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", projID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteProject(projID)

		resp := t.PostJSON("/categories/"+catID+"/projects", relationshipJSON(projID))
		t.Assume(resp.Status == 201 || resp.Status == 200,
			"category-side attach of an existing project returned %d, not the observed 201", resp.Status)
		t.DeleteIfExists("/categories/" + catID + "/projects/" + projID)
	})

	t.Run("POST with a title creates a new project and links it", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("NewProjCat"), "new proj")
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteCategory(catID)

		title := uniqueTitle("NewProj")
		resp := t.PostJSON("/categories/"+catID+"/projects", `{"title":"`+title+`"}`)
		t.RequireStatus(resp, 200, 201)
		newProjID := extractEntityID(resp, "projects")
		require.NotEqual(t, "", newProjID, "no ID for project created through the category")
		defer t.SafeDeleteProject(newProjID)

		listing := t.Get("/categories/" + catID + "/projects")
		t.RequireStatus(listing, 200)
		assert.True(t, containsID(listing.JSON().GetByKey("projects"), newProjID))

		t.DeleteIfExists("/categories/" + catID + "/projects/" + newProjID)
	})

	t.Run("detaching via the category side removes the relationship", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("DelProjRelCat"), "del proj rel")
		projID := t.CreateProject(uniqueTitle("DelProjRel"), "del rel", false)
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", projID)
		defer t.SafeDeleteCategory(catID)
		defer t.SafeDeleteProject(projID)

		t.RequireStatus(t.PostJSON("/projects/"+projID+"/categories", relationshipJSON(catID)), 200, 201)
		t.RequireStatus(t.Delete("/categories/"+catID+"/projects/"+projID), 200)

		listing := t.Get("/categories/" + catID + "/projects")
		t.RequireStatus(listing, 200)
		assert.False(t, containsID(listing.JSON().GetByKey("projects"), projID),
			"project %s still listed after detach", projID)
	})
}

func doCategoryEdgeCaseTests(t *T) {
	t.Run("very large IDs return 404", func(t *T) {
		t.RequireStatus(t.Get("/categories/9999999999999"), 404)
		t.RequireStatus(t.Delete("/categories/9999999999999"), 404)
	})

	t.Run("negative IDs return 404", func(t *T) {
		t.RequireStatus(t.Get("/categories/-1"), 404)
		t.RequireStatus(t.Delete("/categories/-1"), 404)
	})

	t.Run("malformed relationship payloads return a client error", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("Malformed"), "malformed")
		require.NotEqual(t, "", catID)
		defer t.SafeDeleteCategory(catID)

		t.RequireStatus(t.PostJSON("/categories/"+catID+"/todos", `{}`), 400, 422)
		t.RequireStatus(t.PostJSON("/categories/"+catID+"/projects", `{"id":"abc"}`), 400, 404, 422)
	})

	t.Run("unexpected payload fields are accepted", func(t *T) {
		title := uniqueTitle("ExtraField")
		resp := t.PostJSON("/categories", `{"title":"`+title+`","description":"test","extra":"field"}`)
		t.RequireStatus(resp, 200, 201)

		id := extractEntityID(resp, "categories")
		require.NotEqual(t, "", id)
		t.SafeDeleteCategory(id)
	})

	t.Run("deleting a category leaves linked todos intact", func(t *T) {
		catID := t.CreateCategory(uniqueTitle("DelWithRel"), "del with rel")
		todoID := t.CreateTodo(uniqueTitle("TodoWithCat"), false, "rel")
		require.NotEqual(t, "", catID)
		require.NotEqual(t, "", todoID)
		defer t.SafeDeleteTodo(todoID)

		t.RequireStatus(t.PostJSON("/todos/"+todoID+"/categories", relationshipJSON(catID)), 200, 201)
		t.RequireStatus(t.Delete("/categories/"+catID), 200)
		t.RequireStatus(t.Get("/todos/"+todoID), 200)
	})

	t.Run("description may be null or empty after minimal create", func(t *T) {
		title := uniqueTitle("MinimalCat")
		resp := t.PostJSON("/categories", `{"title":"`+title+`"}`)
		t.RequireStatus(resp, 200, 201)
		id := extractEntityID(resp, "categories")
		require.NotEqual(t, "", id)
		defer t.SafeDeleteCategory(id)

		get := t.Get("/categories/" + id)
		t.RequireStatus(get, 200)
		desc := get.JSON().GetByKey("categories").GetByIndex(0).GetByKey("description")
		assert.True(t, desc.IsNull() || desc.Type() == ldvalue.StringType,
			"description came back with unexpected type: %s", desc.JSONString())
	})
}
