package config

// Model points at the serialized classifier artifact. An empty path runs the
// dashboard in PD-column-only mode; a set path that fails to load is fatal
// at startup.
type Model struct {
	Path string `env:"MODEL_PATH"`

	// ScalerPath points at a standalone scaler artifact shipped next to the
	// model file; empty means the scaler, if any, is embedded in the model.
	ScalerPath string `env:"SCALER_PATH"`
}
