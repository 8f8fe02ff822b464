package debug

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

const maxBodyLog = 4096

// DebugTransport wraps an http.RoundTripper to log requests and responses
type DebugTransport struct {
	Transport http.RoundTripper
}

func (d *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fmt.Printf("Making request to: %s %s\n", req.Method, req.URL.String())

	if auth := req.Header.Get("Authorization"); auth != "" {
		fmt.Printf("Authorization: %s\n", redactToken(auth))
	}

	if req.Body != nil {
		bodyBytes, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		fmt.Printf("Request body: %s\n", truncate(bodyBytes))
	}

	transport := d.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return resp, err
	}

	fmt.Printf("Response status: %d\n", resp.StatusCode)

	if resp.Body != nil {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		fmt.Printf("Response body: %s\n", truncate(bodyBytes))
	}

	return resp, err
}

// redactToken keeps the scheme and the first few token characters so tokens
// stay identifiable in logs without being replayable
func redactToken(auth string) string {
	if len(auth) <= 16 {
		return "[REDACTED]"
	}
	return auth[:16] + "...[REDACTED]"
}

func truncate(body []byte) string {
	if len(body) > maxBodyLog {
		return string(body[:maxBodyLog]) + fmt.Sprintf("... (%d bytes truncated)", len(body)-maxBodyLog)
	}
	return string(body)
}
