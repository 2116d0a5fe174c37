package storage

import (
	"fmt"
	"time"
)

// Кэш развёрнутых дней в Redis. Повторяющийся шаблон может материализоваться
// на бесконечном множестве дат, поэтому при записи мы не вычищаем ключи по
// датам, а инкрементируем поколение владельца: старые ключи просто перестают
// читаться и доживают свой TTL.

const dayViewTTL = time.Hour

func scopeGeneration(scope string) int64 {
	gen, err := RedisClient.Get(ctx, "planner_gen_"+scope).Int64()
	if err != nil {
		return 0
	}
	return gen
}

// CachedDayView возвращает закэшированный JSON развёрнутого дня.
func CachedDayView(scope, date string) ([]byte, bool) {
	if RedisClient == nil {
		return nil, false
	}
	key := fmt.Sprintf("planner_day_%s_%d_%s", scope, scopeGeneration(scope), date)
	data, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// StoreDayView кладёт развёрнутый день в кэш текущего поколения.
func StoreDayView(scope, date string, payload []byte) {
	if RedisClient == nil {
		return
	}
	key := fmt.Sprintf("planner_day_%s_%d_%s", scope, scopeGeneration(scope), date)
	RedisClient.Set(ctx, key, payload, dayViewTTL)
}

// InvalidateScope сбрасывает кэш владельца после любой записи шаблонов.
func InvalidateScope(scope string) {
	if RedisClient == nil {
		return
	}
	RedisClient.Incr(ctx, "planner_gen_"+scope)
}
