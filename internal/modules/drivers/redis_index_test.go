// README: Redis-backed geo index tests; skipped unless MOBI_TEST_REDIS_ADDR
// is set.
package drivers

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"mobiurban/internal/types"
)

func setupRedisIndex(t *testing.T) *RedisIndex {
	t.Helper()

	addr := os.Getenv("MOBI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MOBI_TEST_REDIS_ADDR not set; skipping Redis-backed tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		client.Del(context.Background(), driverGeoKey)
		client.Close()
	})
	client.Del(context.Background(), driverGeoKey)
	return NewRedisIndex(client)
}

func TestRedisIndexNearby(t *testing.T) {
	idx := setupRedisIndex(t)
	ctx := context.Background()

	positions := map[types.ID]types.Coordinate{
		"r-close": north(0.5),
		"r-mid":   north(2),
		"r-far":   north(30),
	}
	for id, c := range positions {
		if err := idx.Update(ctx, id, c); err != nil {
			t.Fatalf("update %s: %v", id, err)
		}
	}

	got, err := idx.Nearby(ctx, center, 10)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d drivers, want 2", len(got))
	}
	if got[0].DriverID != "r-close" || got[1].DriverID != "r-mid" {
		t.Errorf("order = [%s, %s], want [r-close, r-mid]", got[0].DriverID, got[1].DriverID)
	}
	if got[0].DistanceKm <= 0 || got[0].DistanceKm > 1 {
		t.Errorf("distance = %v, want ~0.5", got[0].DistanceKm)
	}

	if err := idx.Remove(ctx, "r-close"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err = idx.Nearby(ctx, center, 10)
	if err != nil {
		t.Fatalf("nearby after remove: %v", err)
	}
	if len(got) != 1 || got[0].DriverID != "r-mid" {
		t.Errorf("after remove = %v, want just r-mid", got)
	}
}
