// Package cache holds short-lived snapshots of broker reads, keyed per
// (broker, user) pair. Entries are advisory: a miss or a cache failure
// only costs a live broker call.
package cache

import (
	"context"
	"fmt"

	"ordergateway/internal/constant"
)

// Key addresses one cache entry. An empty OrderID addresses the user's
// order-list entry.
type Key struct {
	Broker  string
	UserID  int64
	OrderID string
}

func ListKey(broker string, userID int64) Key {
	return Key{Broker: broker, UserID: userID}
}

func OrderKey(broker string, userID int64, orderID string) Key {
	return Key{Broker: broker, UserID: userID, OrderID: orderID}
}

func (k Key) String() string {
	if k.OrderID == "" {
		return fmt.Sprintf("%s:%s:%d", constant.OrderCacheKeyPrefix, k.Broker, k.UserID)
	}

	return fmt.Sprintf("%s:%s:%d:%s", constant.OrderCacheKeyPrefix, k.Broker, k.UserID, k.OrderID)
}

// Store is the order cache contract. Get reports a miss for absent or
// expired entries; Put always replaces; Invalidate drops the given
// entries immediately.
type Store interface {
	Get(ctx context.Context, key Key, dest any) (bool, error)
	Put(ctx context.Context, key Key, value any) error
	Invalidate(ctx context.Context, keys ...Key) error
	Close() error
}
