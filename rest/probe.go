package rest

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const probeInterval = time.Millisecond * 100

// Probe polls GET {baseURL}/todos until the Todo service answers with 200 or
// 204, or the timeout elapses. The suite refuses to start against a service
// that is not up; every test would fail with confusing connection errors
// otherwise.
func Probe(baseURL string, timeout time.Duration, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}
	fmt.Fprintf(output, "Connecting to Todo service at %s", baseURL)

	probeURL := baseURL + "/todos"
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		fmt.Fprintf(output, ".")
		resp, err := http.DefaultClient.Get(probeURL)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == 200 || resp.StatusCode == 204 {
				fmt.Fprintln(output)
				return nil
			}
			lastErr = fmt.Errorf("service returned status code %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out waiting for Todo service, result of last query was: %w", lastErr)
		}
		time.Sleep(probeInterval)
	}
}
