package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLockScript 仅当持有者匹配时删除锁
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

var (
	localLockMu sync.Mutex
	localLocks  = make(map[string]struct{})
)

// AcquireLock 获取互斥锁（Redis SET NX；未启用 Redis 时退化为进程内锁）
// 返回释放令牌；锁被占用时 ok=false
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error) {
	if !Enabled() {
		localLockMu.Lock()
		defer localLockMu.Unlock()
		if _, held := localLocks[key]; held {
			return "", false, nil
		}
		localLocks[key] = struct{}{}
		return "local", true, nil
	}
	token = uuid.NewString()
	ok, err = redisClient.SetNX(ctx, buildKey(key), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseLock 释放互斥锁（仅持有者可释放）
func ReleaseLock(ctx context.Context, key, token string) error {
	if !Enabled() {
		localLockMu.Lock()
		defer localLockMu.Unlock()
		delete(localLocks, key)
		return nil
	}
	return releaseLockScript.Run(ctx, redisClient, []string{buildKey(key)}, token).Err()
}
