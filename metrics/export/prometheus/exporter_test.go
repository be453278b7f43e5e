package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frodez/authsess"
)

type fakeSource struct {
	snapshot authsess.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() authsess.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                      { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authsess.MetricsSnapshot{
			Counters: map[authsess.MetricID]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCountersAndAuditDrops(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authsess.MetricsSnapshot{
			Counters: map[authsess.MetricID]uint64{
				authsess.MetricLoginSuccess:  7,
				authsess.MetricRefreshStale:  1,
				authsess.MetricLoginBlocked:  3,
				authsess.MetricLogoutSuccess: 5,
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "authsess_login_success_total 7") {
		t.Fatalf("expected login_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authsess_refresh_stale_total 1") {
		t.Fatalf("expected refresh_stale counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authsess_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE authsess_login_success_total counter") {
		t.Fatalf("expected TYPE line in output, got:\n%s", out)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authsess.MetricsSnapshot{
			Counters: map[authsess.MetricID]uint64{authsess.MetricLoginSuccess: 1},
		},
	})

	srv := httptest.NewServer(exp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
