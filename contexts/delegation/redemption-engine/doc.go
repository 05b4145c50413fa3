// Package redemptionengine executes authorized redemption batches. It
// validates the authorizer/operator binding through the delegation ledger,
// charges the flat batch fee against the fee vault, runs the bound delegate
// over every asset in the batch, and records one audit entry per request.
//
// A batch is all-or-nothing: binding failures, fee shortfalls, and delegate
// prechecks all abort before any asset-side effect. Audit rows are persisted
// together with outbox rows and relayed to the redemption.audited topic by
// the worker.
package redemptionengine
