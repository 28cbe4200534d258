// Package cosmiqgraphql turns a set of document-database containers into
// a runnable GraphQL schema: sample, infer, compose, resolve.
//
// BuildSchema is the single entry point. Callers supply connection
// details, the container list, and an injected driver capability
// (core.ClientFactory); the package samples each container, infers its
// type lattice, composes SDL, and wires a resolver engine bound to a
// shared data-source client (spec.md §4.8). Submodules implement the
// individual pipeline stages:
//
//   - core        shared types, configuration, and the Container contract
//   - resilience  retry and circuit-breaker combinators
//   - sampling    the four document-sampling strategies
//   - inference   untyped-document to GraphQL type-lattice inference
//   - schema      SDL composition and generated-name derivation
//   - resolvers   the query/mutation resolver engine and SQL synthesis
package cosmiqgraphql
