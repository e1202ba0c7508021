// Package diagnostic collects the problems found while reading or writing
// documents and while validating schema files.
//
// Key capabilities:
//   - Anomaly records for recoverable structural problems (unexpected
//     attributes or elements, adapter failures, missing required values)
//   - A Sink that accumulates anomalies or escalates the first one,
//     depending on its Mode
//   - Diagnostics with severities and stable codes for schema validation
package diagnostic
