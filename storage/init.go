package storage

import (
	"HealthRocket/storage/database"
	"HealthRocket/storage/mq"
	"HealthRocket/storage/redis"
)

// Init brings up the database, Redis and RabbitMQ in that order.
func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if err := mq.Init(); err != nil {
		return err
	}

	return nil
}
