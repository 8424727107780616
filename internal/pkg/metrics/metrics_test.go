package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordLedgerOperation(t *testing.T) {
	ops := ledgerOperations.WithLabelValues("debit", "ok")
	tokens := ledgerTokens.WithLabelValues("debit")
	rejected := ledgerOperations.WithLabelValues("debit", "rejected")
	beforeOps, beforeTokens, beforeRejected := testutil.ToFloat64(ops), testutil.ToFloat64(tokens), testutil.ToFloat64(rejected)

	RecordLedgerOperation("debit", "ok", 12)
	RecordLedgerOperation("debit", "rejected", 30)

	require.Equal(t, beforeOps+1, testutil.ToFloat64(ops))
	require.Equal(t, beforeTokens+12, testutil.ToFloat64(tokens))
	require.Equal(t, beforeRejected+1, testutil.ToFloat64(rejected))
}

func TestRecordCompensation(t *testing.T) {
	ok := compensations.WithLabelValues("true")
	failed := compensations.WithLabelValues("false")
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordCompensation(true)
	RecordCompensation(false)
	RecordCompensation(false)

	require.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
	require.Equal(t, beforeFailed+2, testutil.ToFloat64(failed))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordOrderPlacement("created")
	RecordStatusChange("ready")
	RecordRechargeRun("skipped", 0)
	RecordRechargeRun("credited", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	for _, name := range []string{
		"messpay_orders_placements_total",
		"messpay_orders_status_changes_total",
		"messpay_recharge_run_duration_seconds",
	} {
		require.True(t, strings.Contains(string(body), name), name)
	}
}
