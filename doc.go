// Package archspec models CPU microarchitectures as a DAG, resolves a
// running host to its best catalog match, and renders the compiler flags
// needed to target a given node. The catalog is built once from an embedded
// knowledge base (optionally replaced or extended via ARCHSPEC_CPU_DIR /
// ARCHSPEC_EXTENSION_CPU_DIR) and is immutable once built.
package archspec
