package common

// UnknownStr is the String value of enum values outside their declared range.
const UnknownStr = "unknown"
