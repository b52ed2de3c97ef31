package interceptor

import (
	"net/http"
	"time"

	"geomap/api/api/common"
	"geomap/api/codes"
	"geomap/api/log"
	"geomap/api/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// VIEW_ID_HEADER 不带 cookie 的客户端可以直接传视图 id
const VIEW_ID_HEADER = "X-View-Id"

func makeFaileRes(c *gin.Context, code int, msg string) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: code, Msg: msg}
	c.AbortWithStatusJSON(http.StatusOK, res)
}

// ViewSession 把请求绑定到一个视图 store，id 存在 cookie 会话里
func ViewSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		reg := service.GetViews()
		if reg == nil {
			makeFaileRes(c, codes.CODE_ERR_UNKNOWN, "view registry not initialized")
			return
		}
		session := sessions.Default(c)

		id := c.GetHeader(VIEW_ID_HEADER)
		if id == "" {
			if v, ok := session.Get(common.VIEW_SESSION_KEY).(string); ok {
				id = v
			}
		}
		newID, store := reg.Acquire(id)
		if newID != id || session.Get(common.VIEW_SESSION_KEY) != newID {
			session.Set(common.VIEW_SESSION_KEY, newID)
			if err := session.Save(); err != nil {
				log.Warnf("save view session: %v", err)
			}
		}
		c.Header(VIEW_ID_HEADER, newID)
		c.Set(common.VIEW_ID_CTX, newID)
		c.Set(common.VIEW_STORE_CTX, store)
		c.Next()
	}
}
