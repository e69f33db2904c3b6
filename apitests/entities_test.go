package apitests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/todoapi/contract-tests/rest"
)

func jsonResponse(body string) rest.Response {
	return rest.Response{Status: 201, Body: []byte(body)}
}

func TestExtractEntityIDFlatShape(t *testing.T) {
	assert.Equal(t, "12", extractEntityID(jsonResponse(`{"id":"12","title":"x"}`), "todos"))
	assert.Equal(t, "7", extractEntityID(jsonResponse(`{"id":7,"title":"x"}`), "todos"))
}

func TestExtractEntityIDWrappedShape(t *testing.T) {
	body := `{"todos":[{"id":"3","title":"x"}]}`
	assert.Equal(t, "3", extractEntityID(jsonResponse(body), "todos"))
}

func TestExtractEntityIDMissing(t *testing.T) {
	assert.Equal(t, "", extractEntityID(jsonResponse(`{"title":"x"}`), "todos"))
	assert.Equal(t, "", extractEntityID(jsonResponse(`{"todos":[]}`), "todos"))
	assert.Equal(t, "", extractEntityID(jsonResponse(`not json`), "todos"))
}

func TestStringifyID(t *testing.T) {
	assert.Equal(t, "5", stringifyID(ldvalue.String("5")))
	assert.Equal(t, "5", stringifyID(ldvalue.Int(5)))
	assert.Equal(t, "", stringifyID(ldvalue.Null()))
}

func TestFindIDByTitle(t *testing.T) {
	items := ldvalue.Parse([]byte(`[{"id":"1","title":"a"},{"id":2,"title":"b"}]`))
	assert.Equal(t, "1", findIDByTitle(items, "a"))
	assert.Equal(t, "2", findIDByTitle(items, "b"))
	assert.Equal(t, "", findIDByTitle(items, "c"))
	assert.Equal(t, "", findIDByTitle(ldvalue.Null(), "a"))
}

func TestContainsID(t *testing.T) {
	items := ldvalue.Parse([]byte(`[{"id":"1"},{"id":2}]`))
	assert.True(t, containsID(items, "1"))
	assert.True(t, containsID(items, "2"))
	assert.False(t, containsID(items, "3"))
	assert.False(t, containsID(ldvalue.Null(), "1"))
}

func TestBoolish(t *testing.T) {
	assert.True(t, boolish(ldvalue.Bool(true), true))
	assert.True(t, boolish(ldvalue.Bool(false), false))
	assert.True(t, boolish(ldvalue.String("true"), true))
	assert.True(t, boolish(ldvalue.String("false"), false))
	assert.False(t, boolish(ldvalue.String("maybe"), true))
	assert.False(t, boolish(ldvalue.Bool(false), true))
	assert.False(t, boolish(ldvalue.Null(), false))
}

func TestUniqueTitle(t *testing.T) {
	a := uniqueTitle("todo")
	b := uniqueTitle("todo")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "todo-")
}

func TestPayloadBuilders(t *testing.T) {
	assert.JSONEq(t, `{"title":"t","doneStatus":true,"description":"d"}`, todoJSON("t", true, "d"))
	assert.JSONEq(t, `{"title":"c","description":""}`, categoryJSON("c", ""))
	assert.JSONEq(t, `{"title":"p","description":"d","completed":false}`, projectJSON("p", "d", false))
	assert.JSONEq(t, `{"id":"9"}`, relationshipJSON("9"))

	assert.Equal(t, "<todo><title>t</title><doneStatus>false</doneStatus><description></description></todo>",
		todoXMLBody("t", false, ""))
}
