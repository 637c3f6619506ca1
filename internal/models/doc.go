// Package models defines the domain entities and lifecycle rules for the kedoo release review service.
//
// The package contains three categories of types:
//
// 1. Persisted records, stored as JSON collections (one store key per collection):
//   - [Account] : registered user credentials (plaintext, compared verbatim)
//   - [Release] : album metadata, ordered [Track] list and review status
//   - [Ticket] : support request and the moderator's response
//
// 2. Authoring stages, each with its own completeness invariant:
//   - [AlbumDraft] : album detail stage, advanced by [AlbumDraft.Advance]
//   - [TrackCollection] : track collection stage, fed by [TrackCollection.AddTrack]
//   - [TrackDraft] : a track before admission into a collection
//
// 3. Transitions, applied by [TransitionRelease] and [TransitionTicket]:
//   - [SubmitRelease], [ApproveRelease], [RejectRelease], [DeleteRelease]
//   - [AnswerTicket]
//
// Transition functions are pure: they take the current record and a requested transition and
// return the next record or an error wrapping one of the shared error kinds. Persisting the result
// and checking who may request a transition belong to the lifecycle and auth packages.
package models
