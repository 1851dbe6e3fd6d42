package queue

import "fmt"

// NewQueue creates a Queue based on the configured driver, mirroring
// the cache package's factory shape.
func NewQueue(config *QueueConfig) (Queue, error) {
	if config == nil {
		return NewMemoryQueue(), nil
	}

	switch config.Driver {
	case "", "memory":
		return NewMemoryQueue(), nil

	case "redis":
		return NewRedisQueue(&RedisQueueConfig{
			Addr:       config.URL,
			MaxRetries: config.MaxRetries,
		})

	case "nats":
		return NewNATSQueue(&NATSQueueConfig{
			URL:        config.URL,
			MaxRetries: config.MaxRetries,
			RetryDelay: config.RetryDelay,
		})

	default:
		return nil, fmt.Errorf("unknown queue driver: %s", config.Driver)
	}
}
