package ports

import "context"

// RoleCacheInvalidator descarta o estado de resolução em cache de um papel customizado
type RoleCacheInvalidator interface {
	Invalidate(ctx context.Context, customRoleID int64) error
}

// NoopRoleCache é usado quando não há cache na frente do store
type NoopRoleCache struct{}

func (NoopRoleCache) Invalidate(context.Context, int64) error {
	return nil
}
