package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateProfileCache invalidates all cached views of one profile
func InvalidateProfileCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.Profile, fmt.Sprintf("id:%s", userID))
	SafeInvalidatePattern(ctx, cm.Profile, "list:*")
}

// InvalidateCatalogCache invalidates all cached catalog queries
func InvalidateCatalogCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Catalog, "tasks:*")
	SafeInvalidatePattern(ctx, cm.Exists, "task:*")
}
