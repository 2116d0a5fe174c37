package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

// Notice — сообщение хаба синхронизации.
type Notice struct {
	Type      string   `json:"type"`
	Date      string   `json:"date,omitempty"`
	Count     int      `json:"count,omitempty"`
	Usernames []string `json:"usernames,omitempty"`
}

// SyncConn — подключение к хабу живой синхронизации.
type SyncConn struct {
	conn *websocket.Conn
}

// DialSync подключается к хабу и представляется указанным именем.
func DialSync(ctx context.Context, base, username string) (*SyncConn, error) {
	wsURL := strings.Replace(base, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к хабу: %w", err)
	}
	if username != "" {
		msg := map[string]string{"type": "setUsername", "username": username}
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return &SyncConn{conn: conn}, nil
}

// PublishSharedUpdate сообщает хабу, что общий календарь на дату изменился.
func (s *SyncConn) PublishSharedUpdate(date string) error {
	return s.conn.WriteJSON(map[string]string{"type": "sharedCalendarUpdated", "date": date})
}

// Listen читает сообщения хаба и передаёт их обработчику; возвращается
// при обрыве соединения. Пропущенные за время обрыва уведомления не
// доигрываются — после переподключения день перечитывается целиком.
func (s *SyncConn) Listen(handler func(Notice)) error {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		var n Notice
		if err := json.Unmarshal(raw, &n); err != nil {
			continue
		}
		handler(n)
	}
}

func (s *SyncConn) Close() error {
	return s.conn.Close()
}
