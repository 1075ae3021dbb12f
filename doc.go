// Package points provides the types and functions to track a personal
// portfolio of loyalty programs: credit cards, airlines, hotels and others.
// It is designed to be local-first: the whole portfolio is a single snapshot
// persisted in a key/value blob store, and every report is recomputed from it.
//
// The core functionalities include:
//   - Portfolio Store: the single owner of the list of programs. It creates,
//     updates and deletes programs and persists a full snapshot on every
//     mutation.
//   - Derived Views: pure functions over a snapshot of programs, like the
//     balance by program type or the programs expiring soon.
//   - Drafts: the validation boundary for loosely-typed programs, as returned
//     by an AI extraction, before they are added to the store.
//
// This package serves as the foundational logic for the `pts` command-line
// tool.
package points
