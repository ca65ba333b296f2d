package config

// ProviderType identifies an LLM provider used when the RAG backend is down.
type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level lexaid configuration, corresponding to .lexaid.yml.
type Config struct {
	Provider     ProviderType `yaml:"provider" koanf:"provider"`
	Model        string       `yaml:"model" koanf:"model"`
	BackendURL   string       `yaml:"backend_url" koanf:"backend_url"`
	DataDir      string       `yaml:"data_dir" koanf:"data_dir"`
	Jurisdiction string       `yaml:"jurisdiction" koanf:"jurisdiction"`
	SessionTTL   string       `yaml:"session_ttl" koanf:"session_ttl"`
	Upload       UploadConfig `yaml:"upload" koanf:"upload"`
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	MaxPerDay    int   `yaml:"max_per_day" koanf:"max_per_day"`
	MaxSizeBytes int64 `yaml:"max_size_bytes" koanf:"max_size_bytes"`
}
