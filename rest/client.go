// Package rest is a thin HTTP client for the Todo service under test. It
// issues requests, captures the status and body of each response, and writes
// a reproduction curl command line for every request to the debug logger so
// that a failure can be replayed by hand.
package rest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/todoapi/contract-tests/framework"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)

// Client issues requests against a fixed base URL. The base URL is supplied
// explicitly at construction; there is deliberately no global or mutable
// default.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger
}

func NewClient(baseURL string, requestTimeout time.Duration, logger framework.Logger) *Client {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// WithLogger returns a copy of the client whose debug output goes to the
// given logger. Each test gets its own copy so request logs end up in that
// test's captured output.
func (c *Client) WithLogger(logger framework.Logger) *Client {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Client{baseURL: c.baseURL, httpClient: c.httpClient, logger: logger}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(path string) (Response, error) {
	return c.do("GET", path, nil, nil)
}

// GetQuery issues a GET with query parameters, e.g. the title filter on
// /todos.
func (c *Client) GetQuery(path string, query url.Values) (Response, error) {
	return c.do("GET", path, query, nil)
}

// GetAccept issues a GET with an Accept header override, for checking the
// service's XML response path.
func (c *Client) GetAccept(path string, accept string) (Response, error) {
	return c.do("GET", path, nil, http.Header{"Accept": []string{accept}})
}

func (c *Client) Head(path string) (Response, error) {
	return c.do("HEAD", path, nil, nil)
}

func (c *Client) Options(path string) (Response, error) {
	return c.do("OPTIONS", path, nil, nil)
}

func (c *Client) Delete(path string) (Response, error) {
	return c.do("DELETE", path, nil, nil)
}

// Patch issues a bodyless PATCH; the service is expected to reject the verb
// everywhere, so there is nothing meaningful to send.
func (c *Client) Patch(path string) (Response, error) {
	return c.do("PATCH", path, nil, nil)
}

func (c *Client) Post(path string, contentType string, body string) (Response, error) {
	return c.doWithBody("POST", path, contentType, body)
}

func (c *Client) Put(path string, contentType string, body string) (Response, error) {
	return c.doWithBody("PUT", path, contentType, body)
}

func (c *Client) doWithBody(method, path, contentType, body string) (Response, error) {
	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	return c.doRequest(method, path, nil, headers, []byte(body))
}

func (c *Client) do(method, path string, query url.Values, headers http.Header) (Response, error) {
	return c.doRequest(method, path, query, headers, nil)
}

func (c *Client) doRequest(
	method, path string,
	query url.Values,
	headers http.Header,
	body []byte,
) (Response, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		return Response{}, err
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	c.logger.Printf("%s", curlCommand(method, requestURL, req.Header, body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("request failed: %s", err)
		return Response{}, fmt.Errorf("%s %s: %w", method, requestURL, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: reading response body: %w", method, requestURL, err)
	}

	c.logger.Printf("received %d %s", resp.StatusCode, condenseBody(respBody))

	return Response{Status: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
}

const maxLoggedBodyBytes = 400

func condenseBody(body []byte) string {
	if len(body) == 0 {
		return "(no body)"
	}
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > maxLoggedBodyBytes {
		s = s[:maxLoggedBodyBytes] + "..."
	}
	return s
}
