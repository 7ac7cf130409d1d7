package ir

// Version constants for the IR schema and generator.
const (
	// IRVersion is the module document schema version.
	IRVersion = "1"

	// GeneratorVersion is the hecate code generator version.
	GeneratorVersion = "0.1.0"
)
