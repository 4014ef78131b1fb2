// Package api defines the request and response messages of the shared ledger
// RPC services. Messages travel as JSON over the Connect protocol; field names
// follow the lowerCamelCase convention of protobuf JSON.
//
// Every request has a Validate method that checks field-level rules. Rules
// that need stored state (membership, permissions) are enforced by the
// services.
package api
