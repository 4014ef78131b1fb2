// Package models defines the persisted domain models for the shared ledger.
//
// # Models
//
//   - Group: a set of members sharing one expense ledger, joinable by code
//   - Member: a user's membership in a group, with a role
//   - Expense and Split: a shared cost and each member's weighted share of it
//   - Transfer: a direct payment between two members
//   - AuditEntry: a record of every mutation, for the activity trail
//   - User: a registered account supplying the acting identity
//
// Members are keyed by email within a group. Expenses, splits and transfers
// copy the email and display name of the people involved, so historical
// records stay readable after a member leaves the group.
//
// Balances and settlement suggestions are derived on demand by the
// calculator package and are never stored.
package models
