package apitests

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/todoapi/contract-tests/rest"
)

// Entity fixture helpers. Each Create* method posts a minimal valid payload,
// accepts 200 or 201, and tries to recover the server-assigned ID. The
// service's create response is not consistent: some builds return the
// created entity directly ({"id":...}), others wrap it as the first element
// of the collection array ({"todos":[{...}]}). When neither shape yields an
// ID the helpers fall back to a lookup by title. They return "" when every
// path misses; the SafeDelete* helpers treat "" as a no-op so callers never
// build a URL with an empty path segment.

type todoPayload struct {
	Title       string `json:"title"`
	DoneStatus  bool   `json:"doneStatus"`
	Description string `json:"description"`
}

type categoryPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type projectPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type todoXMLPayload struct {
	XMLName     xml.Name `xml:"todo"`
	Title       string   `xml:"title"`
	DoneStatus  bool     `xml:"doneStatus"`
	Description string   `xml:"description"`
}

func todoJSON(title string, done bool, description string) string {
	return mustMarshalJSON(todoPayload{Title: title, DoneStatus: done, Description: description})
}

func categoryJSON(title, description string) string {
	return mustMarshalJSON(categoryPayload{Title: title, Description: description})
}

func projectJSON(title, description string, completed bool) string {
	return mustMarshalJSON(projectPayload{Title: title, Description: description, Completed: completed})
}

func relationshipJSON(id string) string {
	return fmt.Sprintf(`{"id":%q}`, id)
}

func mustMarshalJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err) // fixture payload types always marshal
	}
	return string(data)
}

func todoXMLBody(title string, done bool, description string) string {
	data, err := xml.Marshal(todoXMLPayload{Title: title, DoneStatus: done, Description: description})
	if err != nil {
		panic(err)
	}
	return string(data)
}

// uniqueTitle generates a collision-free title so that title-based lookups
// in one test never match another test's leftovers.
func uniqueTitle(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// CreateTodo creates a todo via JSON and returns its ID, or "" if the ID
// could not be recovered.
func (t *T) CreateTodo(title string, done bool, description string) string {
	resp := t.PostJSON("/todos", todoJSON(title, done, description))
	t.RequireStatus(resp, 200, 201)
	if id := extractEntityID(resp, "todos"); id != "" {
		return id
	}
	return t.findTodoIDByTitle(title)
}

// CreateTodoXML creates a todo via the XML payload path. The XML create
// response does not reliably carry an ID, so it is always resolved with a
// follow-up title lookup.
func (t *T) CreateTodoXML(title string, done bool, description string) string {
	resp := t.PostXML("/todos", todoXMLBody(title, done, description))
	t.RequireStatus(resp, 200, 201)
	return t.findTodoIDByTitle(title)
}

func (t *T) CreateCategory(title, description string) string {
	resp := t.PostJSON("/categories", categoryJSON(title, description))
	t.RequireStatus(resp, 200, 201)
	if id := extractEntityID(resp, "categories"); id != "" {
		return id
	}
	return t.findIDByTitleScan("categories", title)
}

func (t *T) CreateProject(title, description string, completed bool) string {
	resp := t.PostJSON("/projects", projectJSON(title, description, completed))
	t.RequireStatus(resp, 200, 201)
	if id := extractEntityID(resp, "projects"); id != "" {
		return id
	}
	return t.findIDByTitleScan("projects", title)
}

// findTodoIDByTitle looks a todo up with the title query filter, which
// /todos supports.
func (t *T) findTodoIDByTitle(title string) string {
	resp := t.GetQuery("/todos", url.Values{"title": []string{title}})
	t.RequireStatus(resp, 200)
	return findIDByTitle(resp.JSON().GetByKey("todos"), title)
}

// findIDByTitleScan fetches a whole collection and matches on title;
// /categories and /projects have no query filter.
func (t *T) findIDByTitleScan(collection, title string) string {
	resp := t.Get("/" + collection)
	t.RequireStatus(resp, 200)
	return findIDByTitle(resp.JSON().GetByKey(collection), title)
}

// extractEntityID pulls the server-assigned ID out of a create response,
// trying the flat shape first and the array-wrapped shape second.
func extractEntityID(resp rest.Response, collection string) string {
	body := resp.JSON()
	if id := body.GetByKey("id"); !id.IsNull() {
		return stringifyID(id)
	}
	return stringifyID(body.GetByKey(collection).GetByIndex(0).GetByKey("id"))
}

// stringifyID renders an ID value as a string whether the service returned
// it as a JSON string or a number.
func stringifyID(v ldvalue.Value) string {
	switch v.Type() {
	case ldvalue.NullType:
		return ""
	case ldvalue.StringType:
		return v.StringValue()
	default:
		return v.JSONString()
	}
}

func findIDByTitle(items ldvalue.Value, title string) string {
	for i := 0; i < items.Count(); i++ {
		item := items.GetByIndex(i)
		if item.GetByKey("title").StringValue() == title {
			return stringifyID(item.GetByKey("id"))
		}
	}
	return ""
}

func containsID(items ldvalue.Value, id string) bool {
	for i := 0; i < items.Count(); i++ {
		if stringifyID(items.GetByIndex(i).GetByKey("id")) == id {
			return true
		}
	}
	return false
}

// boolish reports whether a JSON value represents the given boolean. The
// service returns doneStatus/completed as a real boolean in some builds and
// as the strings "true"/"false" in others; both count.
func boolish(v ldvalue.Value, want bool) bool {
	switch v.Type() {
	case ldvalue.BoolType:
		return v.BoolValue() == want
	case ldvalue.StringType:
		return v.StringValue() == strconv.FormatBool(want)
	default:
		return false
	}
}
