package apiclient_test

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jrsteele09/go-storefront/internal/metrics"
)

func testCount(m *metrics.Recorder, name string) (int, error) {
	return testutil.GatherAndCount(m.Registry(), name)
}
