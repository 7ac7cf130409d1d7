// Package ir provides the intermediate representation consumed by the code
// generator.
//
// A Module owns flat arenas of globals, functions, blocks, instructions and
// values. Every object is addressed by a typed index (GlobalID, FuncID,
// BlockID, InstID, ValueID); index zero is never a valid object. Consumers
// attach their own annotations by keying maps on these indices instead of on
// object identity.
//
// Values are interned: referring to the same constant, instruction result,
// parameter, global, function or cast twice yields the same ValueID. This
// makes ValueID a stable identity for register and address bookkeeping.
//
// This package has no internal dependencies. The loader builds modules, the
// code generator only reads them.
package ir
