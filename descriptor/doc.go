// Package descriptor describes structural types as data: their attributes,
// child elements, simple content and subtypes, each bound to the node through
// a Slot built from closures rather than reflection.
//
// Descriptors are registered into a Registry during an init phase and the
// registry is then sealed. Sealing validates every reachable descriptor and
// builds its lookup tables; afterwards descriptors are read-only and may be
// shared by any number of concurrent reads and writes.
package descriptor
