package store

import (
	"github.com/roach88/hecate/internal/codegen"
	"github.com/roach88/hecate/internal/ir"
)

// Translation is one recorded compile run.
type Translation struct {
	ID  string `json:"id"`
	Seq int64  `json:"seq"`

	// Source is the module document path as given on the command line.
	Source string `json:"source"`

	ModuleName string `json:"module_name"`
	ModuleHash string `json:"module_hash"`

	// Options is the canonical JSON of the lowering options; see
	// OptionsKey.
	Options string `json:"options"`

	OutputHash string         `json:"output_hash"`
	Report     codegen.Report `json:"report"`

	IRVersion        string `json:"ir_version"`
	GeneratorVersion string `json:"generator_version"`
}

// OptionsKey returns the canonical JSON of the options that affect emitted
// text. The logger is not part of the key.
func OptionsKey(opts codegen.Options) (string, error) {
	if opts.EntryPoint == "" {
		opts.EntryPoint = codegen.DefaultEntryPoint
	}
	if opts.InspectIntrinsic == "" {
		opts.InspectIntrinsic = codegen.DefaultInspectIntrinsic
	}
	data, err := ir.MarshalCanonical(map[string]any{
		"entry":        opts.EntryPoint,
		"init_strings": opts.InitStrings,
		"inspect":      opts.InspectIntrinsic,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
