// Пакет ws — хаб живой синхронизации: реестр открытых соединений,
// рассылка присутствия (userList) и уведомлений об изменении общего
// календаря (sharedCalendarUpdated).
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Период проверки живости: соединение, не ответившее pong'ом на
	// прошлый ping, принудительно закрывается и выбрасывается из реестра
	livenessInterval = 10 * time.Second

	writeWait  = 10 * time.Second
	readWait   = 60 * time.Second
	maxMsgSize = 1024
)

// Envelope — входящее сообщение клиента: {type, ...}.
type Envelope struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Date     string `json:"date,omitempty"`
}

type userListMessage struct {
	Type      string   `json:"type"`
	Count     int      `json:"count"`
	Usernames []string `json:"usernames"`
}

type sharedUpdatedMessage struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

type inbound struct {
	client *Client
	env    Envelope
}

// Hub хранит все открытые соединения. Реестр, имена и флаги живости
// мутируются только внутри цикла Run — снаружи к ним доступа нет,
// блокировки не нужны.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	pong       chan *Client
	// Период проверки живости; выставляется до запуска Run
	liveness time.Duration
}

// Глобальный экземпляр хаба.
var HubInstance = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		pong:       make(chan *Client),
		liveness:   livenessInterval,
	}
}

// Run запускает цикл обработки хаба: регистрация, входящие сообщения,
// pong-и и периодическая проверка живости — всё в одной горутине.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.liveness)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.broadcastUserList()

		case client := <-h.unregister:
			h.drop(client)

		case msg := <-h.inbound:
			switch msg.env.Type {
			case "setUsername":
				msg.client.username = msg.env.Username
				h.broadcastUserList()
			case "sharedCalendarUpdated":
				// Ретрансляция всем, кроме отправителя: он сам только
				// что записал изменения и перечитывать их ему незачем
				h.broadcastSharedUpdate(msg.env.Date, msg.client)
			default:
				log.Printf("Неизвестный тип WS-сообщения: %q", msg.env.Type)
			}

		case client := <-h.pong:
			if h.clients[client] {
				client.alive = true
			}

		case <-ticker.C:
			for client := range h.clients {
				if !client.alive {
					// Прошлый ping остался без ответа — соединение мертво
					client.conn.Close()
					h.drop(client)
					continue
				}
				client.alive = false
				deadline := time.Now().Add(writeWait)
				if err := client.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					client.conn.Close()
					h.drop(client)
				}
			}
			h.broadcastUserList()
		}
	}
}

// drop убирает клиента из реестра и рассылает свежий снимок присутствия.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.broadcastUserList()
}

func (h *Hub) broadcastUserList() {
	usernames := make([]string, 0, len(h.clients))
	for client := range h.clients {
		if client.username != "" {
			usernames = append(usernames, client.username)
		}
	}
	payload, err := json.Marshal(userListMessage{
		Type:      "userList",
		Count:     len(h.clients),
		Usernames: usernames,
	})
	if err != nil {
		return
	}
	h.fanOut(payload, nil)
}

func (h *Hub) broadcastSharedUpdate(date string, sender *Client) {
	payload, err := json.Marshal(sharedUpdatedMessage{
		Type: "sharedCalendarUpdated",
		Date: date,
	})
	if err != nil {
		return
	}
	h.fanOut(payload, sender)
}

// fanOut раздаёт сообщение всем клиентам, кроме skip. Клиент с забитым
// каналом отправки считается мёртвым и выбрасывается — доставка
// best-effort, отставшие перечитают состояние при переподключении.
func (h *Hub) fanOut(payload []byte, skip *Client) {
	for client := range h.clients {
		if client == skip {
			continue
		}
		select {
		case client.send <- payload:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Client представляет одно подключение через WebSocket.
// Поля username и alive принадлежат циклу хаба.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	id       string
	username string
	alive    bool
}

// readPump читает входящие сообщения и передаёт их в цикл хаба.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readWait))
		c.hub.pong <- c
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			log.Printf("Ошибка разбора WS-сообщения: %v", err)
			continue
		}
		c.hub.inbound <- inbound{client: c, env: env}
	}
}

// writePump отправляет клиенту сообщения из канала send.
func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Канал закрыт — хаб выбросил соединение
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS обновляет соединение до WebSocket и регистрирует клиента в хабе.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		http.Error(c.Writer, "Ошибка обновления до WebSocket", http.StatusInternalServerError)
		return
	}
	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 256),
		id:    uuid.NewString(),
		alive: true,
	}
	h.register <- client

	go client.writePump()
	client.readPump()
}

// ServeWS регистрирует соединение в глобальном хабе.
func ServeWS(c *gin.Context) {
	HubInstance.ServeWS(c)
}
