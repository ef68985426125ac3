package redisstore

import "github.com/redis/go-redis/v9"

// claimScript returns tasks with expired locks to the ready set, then moves the
// earliest ready task to the processing set and bumps its attempt counter.
// Running it as one script keeps the claim atomic across competing workers.
//
// KEYS[1] ready set, KEYS[2] processing set
// ARGV[1] now (µs), ARGV[2] lock expiry (µs), ARGV[3] worker ID,
// ARGV[4] task key prefix, ARGV[5] lock expiry (RFC3339)
var claimScript = redis.NewScript(`
local expired = redis.call('ZRANGEBYSCORE', KEYS[2], '-inf', ARGV[1])
for _, id in ipairs(expired) do
	redis.call('ZREM', KEYS[2], id)
	redis.call('ZADD', KEYS[1], ARGV[1], id)
	redis.call('HSET', ARGV[4] .. id, 'status', 'pending')
	redis.call('HDEL', ARGV[4] .. id, 'locked_by', 'locked_until')
end

while true do
	local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 1)
	if #ids == 0 then
		return false
	end

	local id = ids[1]
	local key = ARGV[4] .. id
	redis.call('ZREM', KEYS[1], id)

	-- IDs whose hash is gone are dropped from the set and skipped
	if redis.call('EXISTS', key) == 1 then
		redis.call('ZADD', KEYS[2], ARGV[2], id)
		redis.call('HSET', key, 'status', 'processing', 'locked_by', ARGV[3], 'locked_until', ARGV[5])
		redis.call('HINCRBY', key, 'attempt', 1)
		return id
	end
end
`)

// ownerCheck is the shared prelude of the lock-holder transitions. It loads
// the task's queue and fails unless ARGV[1] still holds the lock.
//
// KEYS[1] task key
// ARGV[1] worker ID, ARGV[2] processing key prefix, ARGV[3] task ID,
// ARGV[4] ready key prefix
const ownerCheck = `
local state = redis.call('HMGET', KEYS[1], 'queue', 'status', 'locked_by')
local q = state[1]
if not q then
	return redis.error_reply('TASK_NOT_FOUND')
end
if state[2] ~= 'processing' then
	return redis.error_reply('TASK_NOT_PROCESSING')
end
if state[3] ~= ARGV[1] then
	return redis.error_reply('TASK_LOCK_LOST')
end
local processing = ARGV[2] .. q
`

// completeScript deletes a claimed task.
var completeScript = redis.NewScript(ownerCheck + `
redis.call('DEL', KEYS[1])
redis.call('ZREM', processing, ARGV[3])
return 1
`)

// retryScript moves a claimed task back to the ready set.
//
// ARGV[5] error message, ARGV[6] run-at (µs), ARGV[7] run-at (RFC3339)
var retryScript = redis.NewScript(ownerCheck + `
redis.call('HSET', KEYS[1], 'status', 'pending', 'error', ARGV[5], 'scheduled_at', ARGV[7])
redis.call('HDEL', KEYS[1], 'locked_by', 'locked_until')
redis.call('ZREM', processing, ARGV[3])
redis.call('ZADD', ARGV[4] .. q, ARGV[6], ARGV[3])
return 1
`)

// extendScript pushes back the lock expiry of a claimed task.
//
// ARGV[5] lock expiry (µs), ARGV[6] lock expiry (RFC3339)
var extendScript = redis.NewScript(ownerCheck + `
redis.call('HSET', KEYS[1], 'locked_until', ARGV[6])
redis.call('ZADD', processing, ARGV[5], ARGV[3])
return 1
`)
