package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the evalhub namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "evalhub")
				So(manager.subsystem, ShouldEqual, "catalog")
				So(manager.histogramBuckets, ShouldResemble, defaultLatencyBuckets)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.scans.WithLabelValues(ResultOK).Inc()

			Convey("Then the registry should expose names and labels from the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_unit_scans_total" {
						found = true
						labels := f.GetMetric()[0].GetLabel()
						names := make([]string, 0, len(labels))
						for _, l := range labels {
							names = append(names, l.GetName())
						}
						So(names, ShouldContain, "env")
						So(names, ShouldContain, "result")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "evalhub")
				So(manager.subsystem, ShouldEqual, "catalog")
				So(manager.constLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording scans", func() {
			before := value("evalhub_catalog_scans_total", ResultOK)
			RecordScan(ResultOK, 12*time.Millisecond)
			RecordScan(ResultError, time.Millisecond)

			Convey("Then the result counter should advance", func() {
				So(value("evalhub_catalog_scans_total", ResultOK), ShouldEqual, before+1)
			})
		})

		Convey("When recording scan report counts", func() {
			skipped := value("evalhub_catalog_skipped_entries_total", "")
			failed := value("evalhub_catalog_parse_failures_total", "")
			RecordSkipped(3)
			RecordSkipped(0)
			RecordParseFailures(2)
			RecordParseFailures(-1)
			UpdateRecordsTotal(42)

			Convey("Then only positive counts should be added", func() {
				So(value("evalhub_catalog_skipped_entries_total", ""), ShouldEqual, skipped+3)
				So(value("evalhub_catalog_parse_failures_total", ""), ShouldEqual, failed+2)
				So(value("evalhub_catalog_records", ""), ShouldEqual, 42)
			})
		})

		Convey("When recording detail and snapshot events", func() {
			So(func() {
				RecordDetailFetch(ResultOK)
				RecordDetailFetch(ResultNotFound)
				RecordSnapshotWrite(ResultOK)
				RecordSnapshotLoad(ResultError)
			}, ShouldNotPanic)

			Convey("Then labelled counters should be present", func() {
				So(value("evalhub_catalog_detail_fetches_total", ResultNotFound), ShouldBeGreaterThanOrEqualTo, 1)
				So(value("evalhub_catalog_snapshot_loads_total", ResultError), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("evals", "GET", "200")
				RecordHTTPRequestDuration("evals", "GET", "200", 5.0)
				RecordErrorByEndpoint("eval", "GET", "not_found")
				UpdateGoroutineCount(12)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsHandler(t *testing.T) {
	Convey("Given the exposition handler", t, func() {
		RecordScan(ResultOK, time.Millisecond)
		rec := httptest.NewRecorder()
		Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		Convey("Then it should serve the custom registry only", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := rec.Body.String()
			So(body, ShouldContainSubstring, "evalhub_catalog_scans_total")
			So(strings.Contains(body, "go_goroutines"), ShouldBeFalse)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

// value reads a counter or gauge from the global registry; result filters on
// the "result" label when set.
func value(name, result string) float64 {
	families, err := GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if result != "" && !hasLabel(m.GetLabel(), "result", result) {
				continue
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func hasLabel[L interface {
	GetName() string
	GetValue() string
}](labels []L, name, want string) bool {
	for _, l := range labels {
		if l.GetName() == name && l.GetValue() == want {
			return true
		}
	}
	return false
}
