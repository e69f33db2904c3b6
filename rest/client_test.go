package rest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type recordedRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// recordingServer captures each request for inspection and answers with a
// fixed status.
func recordingServer(status int, requests *[]recordedRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*requests = append(*requests, recordedRequest{
			Method: r.Method,
			URL:    r.URL,
			Header: r.Header.Clone(),
			Body:   body,
		})
		w.WriteHeader(status)
	}))
}

func TestClientPostSendsBodyAndContentType(t *testing.T) {
	var requests []recordedRequest
	server := recordingServer(201, &requests)
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	resp, err := client.Post("/todos", ContentTypeJSON, `{"title":"t"}`)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)

	require.Len(t, requests, 1)
	assert.Equal(t, "POST", requests[0].Method)
	assert.Equal(t, "/todos", requests[0].URL.Path)
	assert.Equal(t, ContentTypeJSON, requests[0].Header.Get("Content-Type"))
	assert.Equal(t, `{"title":"t"}`, string(requests[0].Body))
}

func TestClientGetQueryEncodesParameters(t *testing.T) {
	var requests []recordedRequest
	server := recordingServer(200, &requests)
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.GetQuery("/todos", url.Values{"title": []string{"scan notes"}})
	require.NoError(t, err)

	require.Len(t, requests, 1)
	assert.Equal(t, "scan notes", requests[0].URL.Query().Get("title"))
}

func TestClientGetAcceptSetsHeader(t *testing.T) {
	var requests []recordedRequest
	server := recordingServer(200, &requests)
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.GetAccept("/todos/1", ContentTypeXML)
	require.NoError(t, err)

	require.Len(t, requests, 1)
	assert.Equal(t, ContentTypeXML, requests[0].Header.Get("Accept"))
}

func TestClientCapturesResponse(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, http.Header{"Content-Type": []string{ContentTypeJSON}},
		[]byte(`{"todos":[{"id":"3"}]}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := NewClient(server.URL, time.Second, nil)
		resp, err := client.Get("/todos")
		require.NoError(t, err)

		assert.Equal(t, 200, resp.Status)
		assert.Equal(t, ContentTypeJSON, resp.Header.Get("Content-Type"))
		assert.Equal(t, `{"todos":[{"id":"3"}]}`, string(resp.Body))
	})
}

func TestClientTrimsTrailingSlashFromBaseURL(t *testing.T) {
	var requests []recordedRequest
	server := recordingServer(200, &requests)
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second, nil)
	_, err := client.Get("/todos")
	require.NoError(t, err)

	require.Len(t, requests, 1)
	assert.Equal(t, "/todos", requests[0].URL.Path)
}

func TestClientReturnsErrorOnConnectionFailure(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	server.Close() // nothing is listening any more

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Get("/todos")
	assert.Error(t, err)
}

func TestResponseJSON(t *testing.T) {
	resp := Response{Status: 200, Body: []byte(`{"id":"5","doneStatus":"false"}`)}
	v := resp.JSON()
	assert.Equal(t, "5", v.GetByKey("id").StringValue())
	assert.Equal(t, "false", v.GetByKey("doneStatus").StringValue())

	assert.Equal(t, ldvalue.Null(), Response{Body: []byte("not json")}.JSON())
	assert.Equal(t, ldvalue.Null(), Response{}.JSON())
}

func TestCurlCommand(t *testing.T) {
	headers := http.Header{
		"Content-Type": []string{ContentTypeJSON},
		"Accept":       []string{ContentTypeXML},
	}
	cmd := curlCommand("POST", "http://localhost:4567/todos", headers, []byte(`{"title":"a b"}`))

	assert.Equal(t, `curl -s -X POST -H 'Accept: application/xml' `+
		`-H 'Content-Type: application/json' --data '{"title":"a b"}' http://localhost:4567/todos`, cmd)
}

func TestCurlCommandWithoutBody(t *testing.T) {
	cmd := curlCommand("DELETE", "http://localhost:4567/todos/1", nil, nil)
	assert.Equal(t, "curl -s -X DELETE http://localhost:4567/todos/1", cmd)
}

func TestProbeSucceedsOnceServiceAnswers(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(500)
			return
		}
		w.WriteHeader(200)
	}))
	defer server.Close()

	err := Probe(server.URL, time.Second*5, io.Discard)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestProbeAccepts204(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(204))
	defer server.Close()

	assert.NoError(t, Probe(server.URL, time.Second, io.Discard))
}

func TestProbeTimesOut(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(503))
	defer server.Close()

	err := Probe(server.URL, time.Millisecond*250, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
