// Package domain contains the core domain entities and value objects for axship.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, compression, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Item]: A single event in one of the supported wire representations
//   - [Batch]: A drained snapshot of serialized items ready to be sent together
//   - [Payload]: The assembled request body plus its content type and encoding
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
