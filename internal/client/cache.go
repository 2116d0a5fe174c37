package client

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// DefaultDebounce — пауза перед записью на сервер: серия быстрых правок
// (перетаскивание события) схлопывается в одну запись.
const DefaultDebounce = 500 * time.Millisecond

// Loader загружает день с сервера, Saver — записывает его.
type Loader func(ctx context.Context, date string) (map[string]Event, error)
type Saver func(date string, events map[string]Event) error

// CacheConfig — зависимости кэша.
type CacheConfig struct {
	Delay  time.Duration
	Load   Loader
	Save   Saver
	Local  *LocalStore // nil — без офлайн-кэша
	Shared bool        // общий календарь: офлайн-фолбэка нет
	Notify func(date string)
}

// Cache — оптимистичное зеркало просматриваемого дня. Правки применяются
// сразу, запись на сервер уходит с задержкой и схлопыванием; источником
// истины остаётся сервер.
type Cache struct {
	mu     sync.Mutex
	delay  time.Duration
	load   Loader
	save   Saver
	local  *LocalStore
	shared bool
	notify func(date string)

	date   string
	events map[string]Event
	timer  *time.Timer
}

func NewCache(cfg CacheConfig) *Cache {
	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Cache{
		delay:  delay,
		load:   cfg.Load,
		save:   cfg.Save,
		local:  cfg.Local,
		shared: cfg.Shared,
		notify: cfg.Notify,
		events: make(map[string]Event),
	}
}

// LoadDay делает день текущим и загружает его. При недоступном сервере
// личный календарь поднимается из локальной копии ровно этой даты; у
// общего календаря офлайн-фолбэка нет — ошибка уходит наверх, остаётся
// прежнее (устаревшее или пустое) состояние.
func (c *Cache) LoadDay(ctx context.Context, date string) (map[string]Event, error) {
	// Отложенная запись прежнего дня выталкивается до переключения:
	// иначе таймер сработал бы уже с новой датой и правки ушли бы не туда
	c.Flush()

	events, err := c.load(ctx, date)
	if err != nil {
		if c.shared || c.local == nil {
			return nil, err
		}
		payload, lerr := c.local.Load(ctx, date)
		if lerr != nil {
			return nil, err
		}
		if uerr := json.Unmarshal(payload, &events); uerr != nil {
			return nil, err
		}
		log.Printf("Сервер недоступен, день %s поднят из локальной копии", date)
	} else if c.local != nil && !c.shared {
		if payload, merr := json.Marshal(events); merr == nil {
			if serr := c.local.Save(ctx, date, payload); serr != nil {
				log.Printf("Не удалось обновить локальную копию: %v", serr)
			}
		}
	}

	c.mu.Lock()
	c.date = date
	c.events = events
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	return snapshot, nil
}

// Date возвращает текущий просматриваемый день.
func (c *Cache) Date() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

// Events возвращает копию текущего состояния дня.
func (c *Cache) Events() map[string]Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cache) snapshotLocked() map[string]Event {
	snapshot := make(map[string]Event, len(c.events))
	for id, ev := range c.events {
		snapshot[id] = ev
	}
	return snapshot
}

// Put применяет правку немедленно и планирует отложенную запись.
func (c *Cache) Put(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[ev.ID] = ev
	c.scheduleFlushLocked()
}

// Remove удаляет событие из дня.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.events, id)
	c.scheduleFlushLocked()
}

func (c *Cache) scheduleFlushLocked() {
	if c.timer != nil {
		// Новая правка в окне задержки — таймер взводится заново,
		// на сервер уйдёт только итоговое состояние
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, c.flush)
}

// Flush немедленно выталкивает отложенную запись, если она запланирована.
func (c *Cache) Flush() {
	c.mu.Lock()
	pending := c.timer != nil
	if pending {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	if pending {
		c.flush()
	}
}

func (c *Cache) flush() {
	c.mu.Lock()
	c.timer = nil
	date := c.date
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.save(date, snapshot); err != nil {
		// Для личного календаря состояние уже лежит в локальной копии,
		// потеря ограничена этой сессией
		log.Printf("Не удалось записать день %s на сервер: %v", date, err)
		return
	}
	if c.local != nil && !c.shared {
		if payload, err := json.Marshal(snapshot); err == nil {
			c.local.Save(context.Background(), date, payload)
		}
	}
	if c.notify != nil {
		c.notify(date)
	}
}

// HandleNotice возвращает true, если уведомление об изменении общего
// календаря касается просматриваемого дня и его надо перечитать целиком.
// Слияния нет намеренно: перечитывание проще и не расходится с сервером.
func (c *Cache) HandleNotice(date string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shared && date == c.date
}
