// Package feevault holds prepaid redemption-fee balances per authorizer
// token and accrues authorizer rewards on every debit.
//
// Layering mirrors the other contexts: domain entities and sentinel errors,
// ports for the repository / token ledger / authorization guard, an
// application service, and memory plus postgres adapters. Deposits pull the
// fee currency from the depositor into the treasury through the TokenLedger
// port; the vault itself never fabricates funds.
package feevault
