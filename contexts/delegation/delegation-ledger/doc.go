// Package delegationledger owns the two tiers of delegation tokens.
//
// An Authorizer token is the root-delegated authority. Its owner may mint one
// Operator token bound to it, verify delegates, and redeem through the bound
// delegate. An Operator token carries a mutable delegate binding and a parent
// link that re-registration can move, which is exactly the condition
// CheckBinding rejects as an operator mismatch.
//
// Tokens are arena-style records addressed by small integer ids; no record is
// ever deleted.
package delegationledger
