// Package pson implements PSON, a schema-less compact binary document
// format for memory-constrained devices.
//
// A PSON document is a JSON-like value tree: objects with named fields,
// arrays, strings, byte blobs, numbers, booleans and null. The wire
// encoding reuses the protobuf tag convention, but the field-number slot of
// every tag carries the value's own kind, so no schema is ever exchanged —
// the tag says what the payload is, not which schema slot it fills.
//
// # Architecture Overview
//
// The module is organized into a few packages with distinct
// responsibilities:
//
//	pson/             Value model, varint + tag codec, Encoder and Decoder
//	├── arena/        Allocation strategies (fixed ring, heap)
//	├── bridge/       JSON, CBOR and YAML conversion of PSON trees
//	├── errors/       Structured error types
//	└── cmd/pson/     CLI for inspecting and converting documents
//
// # Quick Start
//
// Build a document and encode it:
//
//	v := pson.New(nil) // nil selects the heap allocator
//	obj := v.Object()
//	obj.Field("temperature").SetFloat64(22.5)
//	obj.Field("unit").SetString("celsius")
//	data := v.Encode()
//
// Decode it back:
//
//	v, err := pson.Parse(data, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t, _ := v.Object().Get("temperature")
//	fmt.Println(t.Float64()) // 22.5
//
// # Allocation
//
// Every scalar payload is carved out of an arena.Allocator injected at
// construction. On embedded-style targets a fixed arena.Ring bounds memory
// use at the cost of a documented aliasing hazard: allocation never fails,
// but once the ring wraps, older payloads are silently overwritten. Size
// the ring for the worst-case in-flight message, or use arena.Heap.
//
// # Streaming
//
// Encoder writes to any io.Writer and Decoder reads from any io.Reader.
// Nested containers are length-delimited on the wire; the encoder computes
// each submessage length with a counting pass before emitting it, so no
// part of the message is buffered. The cost is proportional to the sum of
// every node's depth, a deliberate trade for small, shallow payloads.
//
// # Error Posture
//
// Decoding is best-effort: a truncated stream yields a partially populated
// tree with the interrupted field left at its zero value, plus a non-nil
// error describing where the stream ended. No failure aborts the process.
//
// # Concurrency
//
// Values, encoders and decoders are not safe for concurrent use. Allocators
// are single-threaded as well; use one pool per goroutine or synchronize
// externally.
package pson
