// Package lokiship ships log entries to Grafana Loki from small, long-running
// programs such as device agents and control loops.
//
// Entries are kept in a fixed-capacity in-memory buffer and pushed to the Loki
// push API as one batch per flush. Every batch holds one stream per severity
// present, labelled with the service name, the device label and the level:
//
//	{"streams":[
//	  {"stream":{"service":"pump","device":"rack-7","level":"WARNING"},
//	   "values":[["1718000000123456789","pressure high"]]}
//	]}
//
// # Architecture
//
//	Log → console mirror → Buffer → (full or immediate) → FormatBatch → send with retry → Loki
//
// A flush that fails leaves the batch in the buffer. Once the buffer is full
// and cannot be flushed, new entries are refused with the flush error rather
// than evicting older ones, so nothing is dropped silently. The buffer is
// volatile: entries do not survive a restart.
//
// # Basic Usage
//
//	logger, err := lokiship.Open(lokiship.Config{
//	    Endpoint:    "https://logs.example.com/loki/api/v1/push",
//	    Username:    "1234",
//	    APIKey:      os.Getenv("LOKI_API_KEY"),
//	    ServiceName: "pump-controller",
//	    DeviceLabel: "rack-7",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Close()
//
//	if _, err := logger.Warning("pressure high"); err != nil {
//	    // Still on the console; will be retried with the next flush.
//	}
//
// # Delivery
//
// A flush makes up to MaxRetries attempts (default 3) spaced by RetryDelay
// (default 1s), with no wait after the last one:
//   - 204 No Content: success, the buffer is cleared
//   - 4xx and 5xx: ResultHTTPError at once, no retry
//   - transport failure: retried, then ResultHTTPError
//   - any other status: retried, then ResultInvalidResponse
//   - network link down (see NetworkMonitor): retried, then ResultDisconnected
//
// Basic authentication is sent only when both Username and APIKey are set.
//
// # Error Handling
//
// Every Log and Flush returns a Result and an error. Errors carry a
// go-errors code (ErrCodeBufferFull, ErrCodeHTTPStatus, ...) that can be
// tested with goerrors.HasCode. Nothing panics, so a host loop can keep
// running with console-only output while Loki is unreachable.
//
// # Thread Safety
//
// All Logger methods are safe for concurrent use. Log and Flush are
// serialized; a Log call that triggers a flush blocks for the duration of
// that flush, up to MaxRetries × RetryDelay plus request timeouts. Pass a
// context to LogContext or FlushContext to bound it.
//
// # Iris Integration
//
// NewIrisWriter adapts a Logger to iris.SyncWriter:
//
//	logger := iris.New(iris.WithSyncWriter(lokiship.NewIrisWriter(shipper)))
package lokiship
