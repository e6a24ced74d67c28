package server

import (
	"fmt"
	"net/http"
	"time"
)

// Status represents the observed state of the application server.
type Status int

const (
	StatusUnknown Status = iota
	StatusUp
	StatusStarting
)

// Probe polls the server's HTTP endpoint until it answers or waits runs out.
// It is best-effort: a server still booting reports StatusStarting, never an
// error, so a slow boot does not fail the invocation.
func Probe(host string, port int, path string, waits int) Status {
	if host == "0.0.0.0" {
		host = "localhost"
	}

	url := fmt.Sprintf("http://%s:%d%s", host, port, path)
	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	for i := 0; i < waits; i++ {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < 500 {
				return StatusUp
			}
		}
		time.Sleep(time.Second)
	}

	return StatusStarting
}
