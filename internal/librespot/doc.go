// Package librespot adapts the librespot-golang client to the interfaces
// the resolution and download packages depend on: a Catalog for metadata
// lookups and an Audio adapter for key retrieval and stream access.
//
// Everything here is a thin translation layer; the protocol work lives
// in the upstream client, and the policy (what to fetch, in what order,
// what to do on failure) lives in the callers.
package librespot
