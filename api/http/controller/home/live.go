package home

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"geomap/api/api/common"
	"geomap/api/codes"
	"geomap/api/log"
	"geomap/api/view"
)

const liveWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type liveConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (l *liveConn) writeJSON(v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.ws.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return l.ws.WriteJSON(v)
}

func (l *liveConn) writeFrame(png []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.ws.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return l.ws.WriteMessage(websocket.BinaryMessage, png)
}

// push 先发快照 JSON，再发 PNG 帧
func (l *liveConn) push(id string, s *view.Store, snap view.Snapshot) error {
	if err := l.writeJSON(toViewResp(id, snap)); err != nil {
		return err
	}
	png, err := drawFrame(s)
	if err != nil {
		return err
	}
	return l.writeFrame(png)
}

// GET /api/map/ws
// 客户端发送 view.Event JSON；每次视图变化服务端推送快照与帧
func Live(c *gin.Context) {
	store := viewStore(c)
	id := c.GetString(common.VIEW_ID_CTX)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("ws upgrade: ", err)
		return
	}
	conn := &liveConn{ws: ws}
	defer ws.Close()

	updates, stop := store.Watch()
	defer stop()

	if err := conn.push(id, store, store.Snapshot()); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range updates {
			if err := conn.push(id, store, snap); err != nil {
				log.Debugf("ws push: %v", err)
				return
			}
		}
	}()

	for {
		var ev view.Event
		if err := ws.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debugf("ws read: %v", err)
			}
			break
		}
		if err := ev.Validate(); err != nil {
			res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_ERR_BAD_PARAMS, Msg: err.Error()}
			if err := conn.writeJSON(res); err != nil {
				break
			}
			continue
		}
		// 视图有变化时 Watch 通道会触发推送
		store.Dispatch(ev)
	}
	stop()
	<-done
}
