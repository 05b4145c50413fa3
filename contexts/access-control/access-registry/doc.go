// Package accessregistry implements the role registry for the Domin platform.
//
// Layering:
// - domain: roles, memberships, function bindings, errors
// - application: admin-gated commands and the CanCall authorization predicate
// - ports: stable boundaries for persistence and time
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Other contexts consume this module only through their own guard ports,
//   wired in the bootstrap composition root.
// - A missing function binding is a policy decision for the caller, never a
//   default-allow inside this module.
package accessregistry
