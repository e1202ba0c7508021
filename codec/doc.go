// Package codec reads XML documents into object graphs and writes them back,
// driven entirely by descriptor.Type data.
//
// Read and Write are the recursive engines; Decoder and Encoder wrap them
// for whole documents. Structural problems found on the way (unknown
// attributes or elements, adapter failures, missing required values) are
// reported to the session's diagnostic.Sink and processing continues with a
// best-effort result, unless the sink runs in fail-fast mode.
//
// Decoders and Encoders hold only a sealed registry and options, so one
// instance may serve any number of goroutines.
package codec
