package config

// ElasticsearchConfig holds the search cluster settings. Enabled is false
// when no URL is configured; the event list then falls back to Postgres.
type ElasticsearchConfig struct {
	Enabled    bool
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

func loadElasticsearchConfig() ElasticsearchConfig {
	url := getEnv("ELASTICSEARCH_URL", "")
	return ElasticsearchConfig{
		Enabled:    url != "",
		URL:        url,
		Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
		Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
		Index:      getEnv("ELASTICSEARCH_INDEX", "events"),
		MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
	}
}
