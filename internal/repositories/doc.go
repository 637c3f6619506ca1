// Package repositories implements persistence for all domain entities on top of a [store.Store].
//
// Each collection lives under a single store key as a JSON array in insertion order.
// Every mutation is one atomic read-modify-write of the whole collection, so concurrent writers
// sharing a store never lose each other's changes.
//
// Key Implementations:
//   - [Collection] : generic [models.Repository] over one store key
//   - [AccountRepository] : registered accounts keyed by exact email
//   - [ReleaseRepository] : releases with owner and status queries
//   - [TicketRepository] : support tickets with owner and status queries
//   - [SessionRepository] : the single active session snapshot
//   - [PreferenceRepository] : the UI theme preference
package repositories
