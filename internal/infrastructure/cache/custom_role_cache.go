package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/rafabene/avantpro-cms/internal/domain/authz"
	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/metrics"
)

// Config controla o CustomRoleCache
type Config struct {
	Size        int
	TTL         time.Duration
	LoadTimeout time.Duration
	Channel     string // canal Redis de invalidação
}

// CustomRoleCache é um authz.RoleLoader com cache LRU na frente do store.
// As definições devolvidas são compartilhadas e não devem ser alteradas.
//
// Cada invalidação incrementa uma geração: cargas iniciadas antes dela não
// gravam no cache e leituras posteriores não se juntam a elas.
type CustomRoleCache struct {
	source      authz.RoleLoader
	entries     *lru.LRU[int64, *entities.CustomRoleDefinition]
	group       singleflight.Group
	loadTimeout time.Duration

	mu         sync.Mutex
	generation uint64

	redis   *redis.Client
	channel string
	logger  ports.Logger
	metrics *metrics.Metrics
}

// NewCustomRoleCache cria o cache. redisClient pode ser nil para uma única instância.
func NewCustomRoleCache(source authz.RoleLoader, cfg Config, redisClient *redis.Client, logger ports.Logger, m *metrics.Metrics) *CustomRoleCache {
	if cfg.Size <= 0 {
		cfg.Size = 1024
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 3 * time.Second
	}

	return &CustomRoleCache{
		source:      source,
		entries:     lru.NewLRU[int64, *entities.CustomRoleDefinition](cfg.Size, nil, cfg.TTL),
		loadTimeout: cfg.LoadTimeout,
		redis:       redisClient,
		channel:     cfg.Channel,
		logger:      logger,
		metrics:     m,
	}
}

// FindByID implementa authz.RoleLoader
func (c *CustomRoleCache) FindByID(ctx context.Context, id int64) (*entities.CustomRoleDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if def, ok := c.entries.Get(id); ok {
		c.metrics.ObserveCache("hit")
		return def, nil
	}
	c.metrics.ObserveCache("miss")

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	key := fmt.Sprintf("%d:%d", id, gen)
	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		// a carga compartilhada não pode ser abortada pelo primeiro chamador
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		def, err := c.source.FindByID(loadCtx, id)
		if err != nil || def == nil {
			return def, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.entries.Add(id, def)
		}
		c.mu.Unlock()
		return def, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		def, _ := res.Val.(*entities.CustomRoleDefinition)
		return def, nil
	}
}

// Invalidate remove o papel do cache local e avisa as outras instâncias
func (c *CustomRoleCache) Invalidate(ctx context.Context, id int64) error {
	c.evict(id)
	c.metrics.ObserveInvalidation("local")

	if c.redis == nil {
		return nil
	}
	if err := c.redis.Publish(ctx, c.channel, strconv.FormatInt(id, 10)).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

func (c *CustomRoleCache) evict(id int64) {
	c.mu.Lock()
	c.generation++
	c.entries.Remove(id)
	c.mu.Unlock()
}

// Len retorna o número de entradas em cache
func (c *CustomRoleCache) Len() int {
	return c.entries.Len()
}

// Start assina o canal de invalidação e processa mensagens até ctx terminar.
// Retorna depois que a assinatura está confirmada. Sem Redis é um no-op.
func (c *CustomRoleCache) Start(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}

	sub := c.redis.Subscribe(ctx, c.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", c.channel, err)
	}

	go func() {
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				id, err := strconv.ParseInt(msg.Payload, 10, 64)
				if err != nil {
					c.logger.Warn("invalid cache invalidation payload", "payload", msg.Payload)
					continue
				}
				c.evict(id)
				c.metrics.ObserveInvalidation("remote")
			}
		}
	}()

	return nil
}
