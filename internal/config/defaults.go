package config

// DefaultConfig returns the configuration used when no .lexaid.yml exists.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderGroq,
		Model:        "llama3-8b-8192",
		BackendURL:   "http://localhost:8000",
		DataDir:      ".lexaid",
		Jurisdiction: "Nigeria",
		SessionTTL:   "24h",
		Upload: UploadConfig{
			MaxPerDay:    5,
			MaxSizeBytes: 10 * 1024 * 1024,
		},
	}
}
