// plannerctl — консольный клиент планировщика: просмотр дня, офлайн-кэш
// и живая синхронизация общего календаря.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rm_planner/internal/client"
)

func main() {
	var (
		server = flag.String("server", "http://localhost:8080", "адрес сервера")
		user   = flag.String("user", "", "имя пользователя")
		pass   = flag.String("pass", "", "пароль")
		signup = flag.Bool("signup", false, "зарегистрировать нового пользователя")
		date   = flag.String("date", time.Now().Format("2006-01-02"), "дата, YYYY-MM-DD")
		shared = flag.Bool("shared", false, "общий календарь вместо личного")
		watch  = flag.Bool("watch", false, "держать соединение и перечитывать день по уведомлениям")
	)
	flag.Parse()

	ctx := context.Background()

	api, err := client.New(*server)
	if err != nil {
		log.Fatalf("Ошибка создания клиента: %v", err)
	}

	// Общий календарь доступен без сессии, личный требует входа.
	if !*shared {
		if *user == "" || *pass == "" {
			log.Fatal("Для личного календаря нужны -user и -pass")
		}
		if *signup {
			err = api.Signup(ctx, *user, *pass)
		} else {
			err = api.Login(ctx, *user, *pass)
		}
		if err != nil {
			log.Fatalf("Ошибка авторизации: %v", err)
		}
	}

	var local *client.LocalStore
	if !*shared {
		if dir, derr := os.UserCacheDir(); derr == nil {
			path := filepath.Join(dir, "plannerctl", "days.db")
			if merr := os.MkdirAll(filepath.Dir(path), 0o700); merr == nil {
				local, err = client.OpenLocalStore(path)
				if err != nil {
					log.Printf("Локальный кэш недоступен: %v", err)
					local = nil
				}
			}
		}
	}
	if local != nil {
		defer local.Close()
	}

	cache := client.NewCache(client.CacheConfig{
		Load: func(ctx context.Context, d string) (map[string]client.Event, error) {
			return api.LoadDay(ctx, d, *shared)
		},
		Save: func(d string, events map[string]client.Event) error {
			return api.SaveDay(context.Background(), d, events, *shared)
		},
		Local:  local,
		Shared: *shared,
	})

	events, err := cache.LoadDay(ctx, *date)
	if err != nil {
		log.Fatalf("Не удалось загрузить день %s: %v", *date, err)
	}
	printDay(*date, events)

	if !*watch {
		return
	}

	sync, err := client.DialSync(ctx, *server, *user)
	if err != nil {
		log.Fatalf("Ошибка подключения к хабу: %v", err)
	}
	defer sync.Close()

	log.Printf("Слежение за днём %s, Ctrl+C для выхода", *date)
	err = sync.Listen(func(n client.Notice) {
		switch n.Type {
		case "userList":
			log.Printf("В сети %d: %s", n.Count, strings.Join(n.Usernames, ", "))
		case "sharedCalendarUpdated":
			if !cache.HandleNotice(n.Date) {
				return
			}
			fresh, lerr := cache.LoadDay(context.Background(), n.Date)
			if lerr != nil {
				log.Printf("Не удалось перечитать день %s: %v", n.Date, lerr)
				return
			}
			printDay(n.Date, fresh)
		}
	})
	if err != nil {
		log.Printf("Соединение с хабом закрыто: %v", err)
	}
}

func printDay(date string, events map[string]client.Event) {
	fmt.Printf("%s — событий: %d\n", date, len(events))
	sorted := make([]client.Event, 0, len(events))
	for _, ev := range events {
		sorted = append(sorted, ev)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Hour != sorted[j].Hour {
			return sorted[i].Hour < sorted[j].Hour
		}
		return sorted[i].Name < sorted[j].Name
	})
	for _, ev := range sorted {
		mark := " "
		if ev.Repeated {
			mark = "~"
		}
		line := fmt.Sprintf("%s %05.2f  %-24s %dмин", mark, ev.Hour, ev.Name, ev.Duration)
		if ev.Location != "" {
			line += "  @ " + ev.Location
		}
		fmt.Println(line)
	}
}
