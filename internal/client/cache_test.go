package client

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSaver struct {
	mu    sync.Mutex
	calls int
	dates []string
	last  map[string]Event
}

func (s *countingSaver) save(date string, events map[string]Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.dates = append(s.dates, date)
	s.last = events
	return nil
}

func staticLoader(events map[string]Event) Loader {
	return func(ctx context.Context, date string) (map[string]Event, error) {
		return events, nil
	}
}

func failingLoader(ctx context.Context, date string) (map[string]Event, error) {
	return nil, errors.New("сеть недоступна")
}

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	saver := &countingSaver{}
	cache := NewCache(CacheConfig{
		Delay: 30 * time.Millisecond,
		Load:  staticLoader(map[string]Event{}),
		Save:  saver.save,
	})
	_, err := cache.LoadDay(context.Background(), "2024-01-15")
	require.NoError(t, err)

	// Имитация перетаскивания: десять правок одного события подряд
	for i := 1; i <= 10; i++ {
		cache.Put(Event{ID: "ev-1", Name: "Встреча", Hour: float64(8 + i)})
	}

	time.Sleep(150 * time.Millisecond)

	saver.mu.Lock()
	defer saver.mu.Unlock()
	assert.Equal(t, 1, saver.calls, "серия правок должна схлопнуться в одну запись")
	require.Contains(t, saver.last, "ev-1")
	assert.Equal(t, 18.0, saver.last["ev-1"].Hour, "записывается итоговое состояние")
}

func TestSeparateBurstsProduceSeparateWrites(t *testing.T) {
	saver := &countingSaver{}
	cache := NewCache(CacheConfig{
		Delay: 20 * time.Millisecond,
		Load:  staticLoader(map[string]Event{}),
		Save:  saver.save,
	})
	_, err := cache.LoadDay(context.Background(), "2024-01-15")
	require.NoError(t, err)

	cache.Put(Event{ID: "a", Name: "Первая"})
	time.Sleep(80 * time.Millisecond)
	cache.Put(Event{ID: "b", Name: "Вторая"})
	time.Sleep(80 * time.Millisecond)

	saver.mu.Lock()
	defer saver.mu.Unlock()
	assert.Equal(t, 2, saver.calls)
	assert.Len(t, saver.last, 2)
}

func TestSwitchingDaysFlushesPendingEdits(t *testing.T) {
	saver := &countingSaver{}
	cache := NewCache(CacheConfig{
		Delay: time.Hour, // таймер сам сработать не успеет
		Load:  staticLoader(map[string]Event{}),
		Save:  saver.save,
	})
	_, err := cache.LoadDay(context.Background(), "2024-01-15")
	require.NoError(t, err)

	cache.Put(Event{ID: "ev-1", Name: "Встреча", Hour: 9})

	// Переключение дня внутри окна задержки: правка обязана уйти на
	// прежний день, а не на новый
	_, err = cache.LoadDay(context.Background(), "2024-01-16")
	require.NoError(t, err)

	saver.mu.Lock()
	defer saver.mu.Unlock()
	require.Equal(t, 1, saver.calls, "отложенная правка потерялась при переключении дня")
	assert.Equal(t, []string{"2024-01-15"}, saver.dates, "правка ушла не на тот день")
	assert.Contains(t, saver.last, "ev-1")
}

func TestOfflineFallbackForPersonalCalendar(t *testing.T) {
	dir := t.TempDir()
	local, err := OpenLocalStore(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer local.Close()

	ctx := context.Background()
	snapshot := map[string]Event{"ev-1": {ID: "ev-1", Name: "Из кэша", Hour: 12}}
	payload, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, local.Save(ctx, "2024-01-15", payload))

	cache := NewCache(CacheConfig{
		Delay: time.Millisecond,
		Load:  failingLoader,
		Save:  func(string, map[string]Event) error { return nil },
		Local: local,
	})

	// Точная дата поднимается из локальной копии
	events, err := cache.LoadDay(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "Из кэша", events["ev-1"].Name)

	// Для даты без копии ошибка уходит наверх
	_, err = cache.LoadDay(ctx, "2024-01-16")
	assert.Error(t, err)
}

func TestSharedCalendarHasNoOfflineFallback(t *testing.T) {
	dir := t.TempDir()
	local, err := OpenLocalStore(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer local.Close()

	ctx := context.Background()
	require.NoError(t, local.Save(ctx, "2024-01-15", []byte(`{"ev-1":{"id":"ev-1"}}`)))

	cache := NewCache(CacheConfig{
		Delay:  time.Millisecond,
		Load:   failingLoader,
		Save:   func(string, map[string]Event) error { return nil },
		Local:  local,
		Shared: true,
	})
	_, err = cache.LoadDay(ctx, "2024-01-15")
	assert.Error(t, err, "общий календарь не поднимается из локальной копии")
}

func TestNotifyAfterSharedSave(t *testing.T) {
	var mu sync.Mutex
	notified := []string{}

	cache := NewCache(CacheConfig{
		Delay:  10 * time.Millisecond,
		Load:   staticLoader(map[string]Event{}),
		Save:   func(string, map[string]Event) error { return nil },
		Shared: true,
		Notify: func(date string) {
			mu.Lock()
			notified = append(notified, date)
			mu.Unlock()
		},
	})
	_, err := cache.LoadDay(context.Background(), "2024-02-01")
	require.NoError(t, err)

	cache.Put(Event{ID: "x", Name: "Общая встреча"})
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"2024-02-01"}, notified)
}

func TestHandleNotice(t *testing.T) {
	shared := NewCache(CacheConfig{
		Delay:  time.Millisecond,
		Load:   staticLoader(map[string]Event{}),
		Save:   func(string, map[string]Event) error { return nil },
		Shared: true,
	})
	_, err := shared.LoadDay(context.Background(), "2024-02-01")
	require.NoError(t, err)

	assert.True(t, shared.HandleNotice("2024-02-01"))
	assert.False(t, shared.HandleNotice("2024-02-02"), "чужая дата не требует перечитывания")

	personal := NewCache(CacheConfig{
		Delay: time.Millisecond,
		Load:  staticLoader(map[string]Event{}),
		Save:  func(string, map[string]Event) error { return nil },
	})
	_, err = personal.LoadDay(context.Background(), "2024-02-01")
	require.NoError(t, err)
	assert.False(t, personal.HandleNotice("2024-02-01"), "личный календарь не слушает общие уведомления")
}
