package testutils

import (
	"net/http"
	"os"
	"testing"
	"time"
)

// MustSkipf skips a test suite, but panics if ADMIN_NO_SKIP_TEST is set
func MustSkipf(t *testing.T, format string, args ...interface{}) {
	if len(os.Getenv("ADMIN_NO_SKIP_TEST")) > 0 {
		panic("test was skipped, but ADMIN_NO_SKIP_TEST is set")
	}
	t.Skipf(format, args...)
}

const (
	envDashboardServerURL = "ADMIN_DASHBOARD_SERVER_URL"

	healthPath = "/health"
)

// DashboardServerURL returns the url of an externally running dashboard server to test against
func DashboardServerURL() string {
	return os.Getenv(envDashboardServerURL)
}

// SkipUnlessDashboardServerRunning skips tests if there is no dashboard server
// running at the configured testing url (see: DashboardServerURL())
func SkipUnlessDashboardServerRunning(t *testing.T) {
	t.Helper()

	url := DashboardServerURL()
	if url == "" {
		MustSkipf(t, "%s is not set", envDashboardServerURL)
		return
	}

	client := http.Client{Timeout: 2 * time.Second}
	res, err := client.Get(url + healthPath)
	if err != nil {
		MustSkipf(t, "dashboard server not running at %s", url)
		return
	}
	res.Body.Close()

	if res.StatusCode != http.StatusOK {
		MustSkipf(t, "dashboard server not healthy at %s: %s", url, res.Status)
	}
}
