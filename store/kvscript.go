// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

// Both key-value backends keep an election as a hash {version, data} plus
// its ID in a set used for listing. The scripts run server-side so the
// version check and the write cannot interleave with another writer.

// KEYS[1] election hash, KEYS[2] ID set
// ARGV[1] expected version, ARGV[2] new version, ARGV[3] payload, ARGV[4] election ID
const saveScriptSrc = `
local current = redis.call('HGET', KEYS[1], 'version')
if not current then current = '0' end
if current ~= ARGV[1] then return 0 end
redis.call('HSET', KEYS[1], 'version', ARGV[2], 'data', ARGV[3])
redis.call('SADD', KEYS[2], ARGV[4])
return 1
`

// KEYS[1] election hash, KEYS[2] ID set
// ARGV[1] election ID
const deleteScriptSrc = `
redis.call('DEL', KEYS[1])
redis.call('SREM', KEYS[2], ARGV[1])
return 1
`
