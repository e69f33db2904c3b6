package rest

import (
	"net/http"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is the captured outcome of a single request: its status code,
// headers, and raw body.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// JSON parses the response body as an arbitrary JSON value. The service's
// response shapes vary from build to build (flat object vs. array-wrapped
// collection, boolean vs. string flags), so callers navigate the value
// dynamically instead of unmarshaling into fixed structs. A body that is not
// valid JSON parses as null.
func (r Response) JSON() ldvalue.Value {
	return ldvalue.Parse(r.Body)
}
