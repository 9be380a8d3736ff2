package rabbitmq

import "testing"

// The main queue and retry queue must form a cycle through the declared
// names: main dead-letters to the DLQ, retry dead-letters back to main.
// Both the publisher and the worker declare through DeclareTopology, so
// these argument tables are the single source of truth the broker
// asserts against.
func TestQueueTopologyArgs(t *testing.T) {
	const queue = "research_jobs"

	main := mainQueueArgs(queue)
	if main["x-dead-letter-exchange"] != "" {
		t.Fatalf("main queue must dead-letter via the default exchange, got %v", main["x-dead-letter-exchange"])
	}
	if main["x-dead-letter-routing-key"] != "research_jobs.dlq" {
		t.Fatalf("main queue must dead-letter to the DLQ, got %v", main["x-dead-letter-routing-key"])
	}

	retry := retryQueueArgs(queue)
	if retry["x-dead-letter-exchange"] != "" {
		t.Fatalf("retry queue must dead-letter via the default exchange, got %v", retry["x-dead-letter-exchange"])
	}
	if retry["x-dead-letter-routing-key"] != queue {
		t.Fatalf("retry queue must dead-letter back to the main queue, got %v", retry["x-dead-letter-routing-key"])
	}
}
