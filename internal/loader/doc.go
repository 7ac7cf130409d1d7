// Package loader reads module documents and builds ir.Module values.
//
// Documents are YAML (.yaml, .yml) or CUE (.cue) files of the same shape:
//
//	globals:
//	  - name: .str
//	    string: "hi\0"
//	functions:
//	  - name: puts            # no blocks: a declaration
//	  - name: main
//	    blocks:
//	      - name: entry
//	        insts:
//	          - {op: alloca, name: x}
//	          - {op: store, args: ["5", "%x"]}
//	          - {op: load, name: v, args: ["%x"]}
//	          - {op: ret, args: ["%v"]}
//
// Names are resolved, nothing else is verified: a document that names
// every referenced value and block loads even if it is not well formed.
// Failures are reported as *LoadError carrying a code and, where known,
// a YAML line or CUE position.
package loader
