package config

const (
	defaultTemplateID      = "midrender-cli-1"
	defaultChunkSize       = 10
	defaultPriority        = 50
	defaultCooldownSeconds = 2
	defaultProduct         = "MidRender"
	defaultGeneration      = 1
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Submit: Submit{
			TemplateID:      defaultTemplateID,
			ChunkSize:       defaultChunkSize,
			Priority:        defaultPriority,
			CooldownSeconds: defaultCooldownSeconds,
		},
		Farm: Farm{
			Product:    defaultProduct,
			Generation: defaultGeneration,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
