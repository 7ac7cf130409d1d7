// Package codegen lowers an ir.Module into assembly text for the toy
// register machine.
//
// Lowering is a single linear walk: for each defined function the block
// labels and stack addresses are assigned up front, then every instruction
// is expanded into one or a few lines of assembly. There is no optimization
// and no liveness analysis.
//
// All mutable bookkeeping lives on a Session, created fresh for each module:
//   - the register map and the four-entry register pool (R2, R3, R4, R5 in
//     allocation order), shared by every function of the module and never
//     replenished; once empty, every new value aliases R2
//   - the alloca address counter (1000, 1004, ...), also module-scoped
//   - the string cursor for byte-string globals (starting at 2000)
//   - block labels, rebuilt for every function
//
// R0 and R1 hold the constants zero and one and are never handed out by the
// allocator.
//
// Comparison predicates survive only in the emitted comment: a conditional
// branch tests its condition against R0 and nothing else.
package codegen
