package showtimes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SeatGuard is a Redis fast path in front of the database seat ledger.
// It rejects obviously conflicting claims before a transaction is opened;
// the database row lock remains the source of truth.
type SeatGuard struct {
	redis *redis.Client
}

// NewSeatGuard creates a new Redis seat guard
func NewSeatGuard(redisClient *redis.Client) *SeatGuard {
	return &SeatGuard{redis: redisClient}
}

// Lua script for atomic seat claiming - prevents race conditions
const luaGuardClaim = `
-- KEYS[1] = showtime guard set key
-- ARGV[1] = ttl_seconds
-- ARGV[2..N] = seat_ids

local guard_key = KEYS[1]
local ttl = tonumber(ARGV[1])

-- Check if any requested seat is already claimed
for i = 2, #ARGV do
    if redis.call("SISMEMBER", guard_key, ARGV[i]) == 1 then
        return {0, ARGV[i]}
    end
end

-- All free, claim them atomically
for i = 2, #ARGV do
    redis.call("SADD", guard_key, ARGV[i])
end
redis.call("EXPIRE", guard_key, ttl)

return {1, "success"}
`

// Lua script for atomic seat release
const luaGuardRelease = `
-- KEYS[1] = showtime guard set key
-- ARGV[1..N] = seat_ids

local guard_key = KEYS[1]
local released = 0

for i = 1, #ARGV do
    released = released + redis.call("SREM", guard_key, ARGV[i])
end

return released
`

func guardKey(showtimeID uuid.UUID) string {
	return "showbook:seat_guard:" + showtimeID.String()
}

// Claim atomically claims seats in the guard set using a Lua script.
// A *SeatConflictError names the first seat that was already claimed.
func (g *SeatGuard) Claim(ctx context.Context, showtimeID uuid.UUID, seats []string, ttl time.Duration) error {
	if g.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{guardKey(showtimeID)}
	args := []interface{}{strconv.Itoa(int(ttl.Seconds()))}
	for _, seat := range seats {
		args = append(args, seat)
	}

	result, err := g.redis.EvalSha(ctx, luaGuardClaim, keys, args...).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = g.redis.Eval(ctx, luaGuardClaim, keys, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to execute seat guard claim: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		if conflictSeat, ok := resultArray[1].(string); ok {
			return &SeatConflictError{Seats: []string{conflictSeat}}
		}
		return fmt.Errorf("failed to claim seats")
	}

	return nil
}

// Release atomically removes seats from the guard set
func (g *SeatGuard) Release(ctx context.Context, showtimeID uuid.UUID, seats []string) (int, error) {
	if g.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	args := make([]interface{}, 0, len(seats))
	for _, seat := range seats {
		args = append(args, seat)
	}

	result, err := g.redis.EvalSha(ctx, luaGuardRelease, []string{guardKey(showtimeID)}, args...).Result()
	if err != nil {
		result, err = g.redis.Eval(ctx, luaGuardRelease, []string{guardKey(showtimeID)}, args...).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to execute seat guard release: %w", err)
		}
	}

	released, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}

	return int(released), nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (g *SeatGuard) PreloadScripts(ctx context.Context) error {
	if g.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := g.redis.ScriptLoad(ctx, luaGuardClaim).Result(); err != nil {
		return fmt.Errorf("failed to load seat claim script: %w", err)
	}
	if _, err := g.redis.ScriptLoad(ctx, luaGuardRelease).Result(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}

	return nil
}
