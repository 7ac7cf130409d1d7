// Package harness runs lowering conformance scenarios.
//
// A scenario names a module document, the translation options to apply and
// a list of assertions over the emitted assembly. Each run loads the module
// with the loader package and translates it in a fresh codegen Session, so
// scenarios are independent of one another.
//
// # Scenario Format
//
//	name: store_then_load
//	description: "A constant store goes through the scratch register"
//	module: modules/storeload.yaml   # relative to the scenario file
//	entry: main                      # optional
//	inspect: inspect                 # optional
//	init_strings: false              # optional
//	assertions:
//	  - type: contains
//	    function: main
//	    lines: ["  load R5, 5", "  store @1000, R5"]
//	  - type: count
//	    line: "  ret"
//	    count: 1
//	  - type: report
//	    report: {allocas: 1, unhandled: 0}
//
// # Assertion Types
//
//   - contains: the lines appear as one consecutive run
//   - order: the lines appear in order, possibly with others between them
//   - count: a line appears exactly N times
//   - absent: a line never appears
//   - report: report fields, named as in its JSON form, have the given values
//
// Line assertions may set function to search only that function's body.
//
// # Golden Files
//
// RunWithGolden compares the complete output against
// testdata/golden/<name>.golden using goldie; the CLI test command keeps
// its golden files next to the scenarios in golden/<file>.golden.
package harness
