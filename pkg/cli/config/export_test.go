package config

import "time"

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, apiURL, baseURL string, digestInterval time.Duration, maxControls int) *Slack {
	return &Slack{
		botToken:       botToken,
		apiURL:         apiURL,
		baseURL:        baseURL,
		digestInterval: digestInterval,
		maxControls:    maxControls,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, bucket, prefix string, maxSize int64) *Storage {
	return &Storage{
		backend: backend,
		bucket:  bucket,
		prefix:  prefix,
		maxSize: maxSize,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
