// Package adapter converts lexical XML values (attribute values and element
// text) to typed Go values and back.
//
// Every adapter obeys the round-trip law decode(encode(x)) == x for the values
// in its domain. The Boolean adapter is intentionally lossy: only the literal
// tokens "1" and "true" decode to true.
//
// # Built-in adapters
//
//   - string: the raw value, untouched
//   - trimmed: XML whitespace removed from both ends
//   - collapsed: runs of XML whitespace folded to one space, ends trimmed
//   - normalized: each XML whitespace character replaced by a space
//   - boolean, int, long, double
//   - qname: a prefixed name resolved against the in-scope namespaces
//   - datetime, date: ISO-8601 values as time.Time
//   - list(<name>): whitespace separated tokens decoded with <name>
//
// Adapters are looked up by name through a Registry, which is how schema
// files refer to them.
package adapter
