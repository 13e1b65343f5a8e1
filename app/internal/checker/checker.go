package checker

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// Result is the outcome of one probe.
type Result struct {
	OK        bool
	Code      int
	LatencyMS *int
	Err       string
}

// Probe performs a health check against url. URLs with a tcp:// scheme
// are checked by dialing; anything else is fetched over HTTP and the
// response code compared against [minOK, maxOK]. An unset range falls
// back to 200-399, an unset timeout to 5s.
func Probe(ctx context.Context, url string, timeout time.Duration, minOK, maxOK int) Result {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if minOK <= 0 {
		minOK = 200
	}
	if maxOK <= 0 {
		maxOK = 399
	}

	if strings.HasPrefix(url, "tcp://") {
		addr := strings.TrimPrefix(url, "tcp://")
		d := net.Dialer{Timeout: timeout}
		t0 := time.Now()
		conn, err := d.DialContext(ctx, "tcp", addr)
		ms := int(time.Since(t0).Milliseconds())
		if err != nil {
			return Result{Err: err.Error()}
		}
		_ = conn.Close()
		return Result{OK: true, LatencyMS: &ms}
	}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Err: err.Error()}
	}
	t0 := time.Now()
	resp, err := client.Do(req)
	ms := int(time.Since(t0).Milliseconds())
	if err != nil {
		return Result{LatencyMS: &ms, Err: err.Error()}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= minOK && resp.StatusCode <= maxOK
	return Result{OK: ok, Code: resp.StatusCode, LatencyMS: &ms}
}
