// Package harness runs scripted mutator scenarios against the demo document.
//
// Every scenario executes in a fresh memory store seeded with the demo
// document, with a deterministic clock that starts at testutil.DemoTime and
// advances one second per read. Audit timestamps and record ids are therefore
// identical across runs, and the rendered trace can be compared with a golden
// file.
//
// # Scenario Format
//
// Scenarios are YAML files. Unknown fields are rejected.
//
//	name: restock_low_item
//	description: "Restocking lifts an item above its minimum"
//	setup:
//	  - invoke: inventory.edit
//	    args: { id: 1, min_stock: 200 }
//	flow:
//	  - invoke: inventory.restock
//	    args: { id: 1, qty: 100 }
//	  - invoke: customer.delete
//	    args: { id: 999, confirm: true }
//	    expect: not_found
//	assertions:
//	  - type: record
//	    collection: inventory
//	    id: 1
//	    field: stock
//	    equals: 250
//	  - type: count
//	    collection: customers
//	    equals: 6
//	  - type: audit_contains
//	    action: UPDATE
//	    details: "+100"
//
// # Outcomes
//
// A step's expect is one of ok (the default), not_found, validation,
// transition or not_confirmed. Setup steps must succeed.
//
// # Assertion Types
//
//   - count: a collection holds exactly equals records
//   - record: the JSON field of the record with id equals the given value
//   - audit_contains: some audit entry matches action, entity, entity_id and
//     a details substring; empty matchers are ignored
package harness
