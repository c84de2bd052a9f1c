package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"BassTab/core/player"
	"BassTab/core/session"
	"BassTab/core/timeline"
	"BassTab/logger"
	"BassTab/model"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSMessageType 消息类型
type WSMessageType string

const (
	// 服务端 -> 客户端
	MsgTypeLoadRuntime  WSMessageType = "load_runtime"  // 注入播放器运行时脚本
	MsgTypeCreatePlayer WSMessageType = "create_player" // 构造一个内嵌播放器
	MsgTypeSeek         WSMessageType = "seek"          // 跳转
	MsgTypeDestroy      WSMessageType = "destroy"       // 销毁内嵌播放器
	MsgTypeState        WSMessageType = "state"         // 控制器状态与当前选中小节
	MsgTypeError        WSMessageType = "error"         // 错误消息

	// 客户端 -> 服务端
	MsgTypeRuntimeReady WSMessageType = "runtime_ready" // 运行时加载完成
	MsgTypeRuntimeError WSMessageType = "runtime_error" // 运行时加载失败
	MsgTypePlayerReady  WSMessageType = "player_ready"  // 内嵌播放器就绪
	MsgTypePlayerError  WSMessageType = "player_error"  // 内嵌播放器错误（带错误码）
	MsgTypePosition     WSMessageType = "position"      // 播放位置上报
	MsgTypeSelectBar    WSMessageType = "select_bar"    // 选中小节
)

// WSMessage WebSocket 消息结构
type WSMessage struct {
	Type      WSMessageType   `json:"type"`
	Role      string          `json:"role,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// SeekData 跳转数据
type SeekData struct {
	Seconds float64 `json:"seconds"`
	Resume  bool    `json:"resume"`
}

// PositionData 播放位置数据
type PositionData struct {
	Seconds float64 `json:"seconds"`
}

// PlayerErrorData 播放器错误数据
type PlayerErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// SelectBarData 小节选择数据
type SelectBarData struct {
	Bar int `json:"bar"`
}

// StateData 会话状态快照
type StateData struct {
	Slug        string                 `json:"slug"`
	SessionID   string                 `json:"sessionId"`
	Players     []session.PlayerStatus `json:"players"`
	SelectedBar *int                   `json:"selectedBar,omitempty"`
}

// playerBridge runs one page's player runtime over a websocket: the browser
// end executes the actual embeds, the server end drives them through the
// RuntimeLoader / PlayerFactory seams. The runtime's lifetime (the "process"
// the bootstrap guards) is the connection.
type playerBridge struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu          sync.Mutex
	runtimeDone func(error)
	events      map[string]player.InstanceEvents
	positions   map[string]float64
}

func newPlayerBridge(conn *websocket.Conn) *playerBridge {
	return &playerBridge{
		conn:      conn,
		events:    make(map[string]player.InstanceEvents),
		positions: make(map[string]float64),
	}
}

func (b *playerBridge) send(msgType WSMessageType, role string, data interface{}) {
	msg := WSMessage{
		Type:      msgType,
		Role:      role,
		Timestamp: time.Now().UnixMilli(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.Error("failed to marshal ws message", logger.ErrorField(err))
			return
		}
		msg.Data = raw
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteJSON(msg); err != nil {
		logger.Warn("failed to write ws message",
			logger.String("type", string(msgType)), logger.ErrorField(err))
	}
}

// LoadRuntime implements player.RuntimeLoader: it asks the client to inject
// the embed runtime and keeps the completion hook until the client reports
// back.
func (b *playerBridge) LoadRuntime(done func(err error)) {
	b.mu.Lock()
	b.runtimeDone = done
	b.mu.Unlock()
	b.send(MsgTypeLoadRuntime, "", nil)
}

// CreatePlayer implements player.PlayerFactory.
func (b *playerBridge) CreatePlayer(cfg player.EmbedConfig, events player.InstanceEvents) {
	role := "player"
	if named, ok := events.(interface{ Name() string }); ok {
		role = named.Name()
	}

	b.mu.Lock()
	b.events[role] = events
	b.mu.Unlock()
	b.send(MsgTypeCreatePlayer, role, cfg)
}

// runtimeFinished fires the pending load hook exactly once.
func (b *playerBridge) runtimeFinished(err error) {
	b.mu.Lock()
	done := b.runtimeDone
	b.runtimeDone = nil
	b.mu.Unlock()
	if done != nil {
		done(err)
	}
}

func (b *playerBridge) playerReady(role string) {
	b.mu.Lock()
	events := b.events[role]
	b.mu.Unlock()
	if events == nil {
		logger.Warn("player_ready for unknown role", logger.String("role", role))
		return
	}
	events.PlayerReady(&wsEmbeddedPlayer{bridge: b, role: role})
}

func (b *playerBridge) playerFailed(role string, code int) {
	b.mu.Lock()
	events := b.events[role]
	b.mu.Unlock()
	if events == nil {
		logger.Warn("player_error for unknown role", logger.String("role", role))
		return
	}
	events.PlayerFailed(code)
}

func (b *playerBridge) setPosition(role string, seconds float64) {
	b.mu.Lock()
	b.positions[role] = seconds
	b.mu.Unlock()
}

func (b *playerBridge) position(role string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.positions[role]
}

// wsEmbeddedPlayer is the server-side handle to one client-side embed.
type wsEmbeddedPlayer struct {
	bridge *playerBridge
	role   string
}

func (p *wsEmbeddedPlayer) SeekTo(seconds float64, resume bool) {
	p.bridge.send(MsgTypeSeek, p.role, SeekData{Seconds: seconds, Resume: resume})
}

func (p *wsEmbeddedPlayer) CurrentOffsetSeconds() float64 {
	return p.bridge.position(p.role)
}

func (p *wsEmbeddedPlayer) Destroy() error {
	p.bridge.send(MsgTypeDestroy, p.role, nil)
	return nil
}

// PairSessionHandler 建立一个配对页面的播放会话
func (h *APIHandler) PairSessionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	slug, err := model.SanitizeSlug(vars["slug"])
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	payload, err := h.resolvePair(r.Context(), slug)
	if err != nil {
		logger.Error("failed to resolve pair for session",
			logger.String("slug", slug), logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "failed to resolve pair")
		return
	}
	if payload == nil {
		respondWithError(w, http.StatusNotFound, "track pair not found: "+slug)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	bridge := newPlayerBridge(conn)
	// 每个连接一个 bootstrap：运行时存活于对端页面中
	boot := player.NewBootstrap(bridge)

	sess, err := session.New(payload, boot, bridge, h.cfg.EmbedOrigin)
	if err != nil {
		logger.Error("failed to create session",
			logger.String("slug", slug), logger.ErrorField(err))
		bridge.send(MsgTypeError, "", PlayerErrorData{Message: err.Error()})
		return
	}
	defer sess.Close()

	h.pushState(bridge, slug, sess)

	// 读循环：客户端事件驱动会话状态机
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logger.Debug("session connection closed",
				logger.String("session", sess.ID()), logger.ErrorField(err))
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			bridge.send(MsgTypeError, "", PlayerErrorData{Message: "malformed message"})
			continue
		}

		switch msg.Type {
		case MsgTypeRuntimeReady:
			bridge.runtimeFinished(nil)
			h.pushState(bridge, slug, sess)

		case MsgTypeRuntimeError:
			var ed PlayerErrorData
			_ = json.Unmarshal(msg.Data, &ed)
			if ed.Message == "" {
				ed.Message = "runtime load failed"
			}
			bridge.runtimeFinished(fmt.Errorf("%s", ed.Message))
			h.pushState(bridge, slug, sess)

		case MsgTypePlayerReady:
			bridge.playerReady(msg.Role)
			h.pushState(bridge, slug, sess)

		case MsgTypePlayerError:
			var ed PlayerErrorData
			_ = json.Unmarshal(msg.Data, &ed)
			bridge.playerFailed(msg.Role, ed.Code)
			h.pushState(bridge, slug, sess)

		case MsgTypePosition:
			var pd PositionData
			if err := json.Unmarshal(msg.Data, &pd); err == nil {
				bridge.setPosition(msg.Role, pd.Seconds)
			}

		case MsgTypeSelectBar:
			var sd SelectBarData
			if err := json.Unmarshal(msg.Data, &sd); err != nil {
				bridge.send(MsgTypeError, "", PlayerErrorData{Message: "malformed select_bar"})
				continue
			}
			if err := sess.SelectBar(sd.Bar); err != nil {
				if errors.Is(err, timeline.ErrMarkerNotFound) {
					bridge.send(MsgTypeError, "", PlayerErrorData{
						Message: fmt.Sprintf("unknown bar %d", sd.Bar),
					})
					continue
				}
				logger.Warn("bar selection failed",
					logger.Int("bar", sd.Bar), logger.ErrorField(err))
				continue
			}
			h.pushState(bridge, slug, sess)

		default:
			logger.Debug("ignoring unknown ws message",
				logger.String("type", string(msg.Type)))
		}
	}
}

func (h *APIHandler) pushState(bridge *playerBridge, slug string, sess *session.Session) {
	state := StateData{
		Slug:      slug,
		SessionID: sess.ID(),
		Players:   sess.Statuses(),
	}
	if marker, ok := sess.Coordinator().Selected(); ok {
		bar := marker.Bar
		state.SelectedBar = &bar
	}
	bridge.send(MsgTypeState, "", state)
}
