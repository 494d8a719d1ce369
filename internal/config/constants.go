package config

import "time"

const (
	// Task URL title fetch timeout
	PreviewTimeout = 10 * time.Second

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Submission media download timeout
	MediaFetchTimeout = 30 * time.Second
)
