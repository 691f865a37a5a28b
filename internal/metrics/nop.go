package metrics

import "time"

// NopCollector discards all metrics. Used by the TUI binary and in tests.
type NopCollector struct{}

func (NopCollector) RecordSignIn(string)             {}
func (NopCollector) RecordProfileProvisioned()       {}
func (NopCollector) RecordEntryCreated()             {}
func (NopCollector) RecordChatRequest(string)        {}
func (NopCollector) RecordChatLatency(time.Duration) {}
func (NopCollector) RecordHTTPStatus(int)            {}
