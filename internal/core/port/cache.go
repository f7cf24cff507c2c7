package port

import (
	"context"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
)

// MenuCache caches rendered navigation menus per user.
type MenuCache interface {
	Get(ctx context.Context, userID string) ([]rbac.MenuItem, bool, error)
	Set(ctx context.Context, userID string, menu []rbac.MenuItem) error
	Invalidate(ctx context.Context, userID string) error
}
