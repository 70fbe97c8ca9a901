// Package harness runs scripted console sessions against an in-memory
// document store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: orders_pairwise
//	description: "Three orders compared in _id order"
//	database: shop          # optional, default "test"
//	token: abcd             # optional disambiguator, default "t3st"
//	collections:
//	  orders:
//	    - {_id: 2, b: 1, a: 2}
//	    - {_id: 1, a: 2, b: 1}
//	input:
//	  - find orders
//	  - "n"
//	  - compare
//	  - "y"
//	  - exit
//	expect:
//	  launches: 1
//	  files: [orders-id1-abcd.json, orders-id2-abcd.json]
//	  output_contains: ["Total results: 2"]
//
// Documents keep the field order written in the file, so scenarios can
// exercise canonicalization. Unquoted YAML timestamps become time values.
//
// Each run gets a fresh store, a temporary snapshot directory, a recording
// launcher in place of the diff tool, and an in-memory journal. Input
// lines are echoed into the transcript, which RunWithGolden compares with
// testdata/golden/<name>.golden.
package harness
