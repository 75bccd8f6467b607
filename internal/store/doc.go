// Package store provides SQLite-backed access to the reporting core's
// relational data.
//
// Tables and ownership:
//   - categories, products, users: reference data, read-only here
//   - entities: current entity state, read-only here
//   - audit_events: the append-only audit trail, read-only here;
//     owned by the audit subsystem
//   - series, series_data: saved sampling queries and their points;
//     series_data is the only table this core writes
//
// Ordering is deterministic everywhere: audit events by
// (entity_id, day_number, seq), entities by (creation_day, id), series by
// id. Replay and regeneration depend on these orders.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
