package app

import (
	"fmt"

	rediscache "github.com/udaanlabs/pathshala-backend/internal/clients/redis"
	"github.com/udaanlabs/pathshala-backend/internal/logger"
)

type Clients struct {
	Cache rediscache.Cache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	cache, err := rediscache.NewCache(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis cache: %w", err)
	}
	return Clients{Cache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
