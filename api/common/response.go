package common

// Response 统一返回结构
type Response struct {
	Code      int         `json:"code"`
	Msg       string      `json:"msg"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

const (
	// VIEW_SESSION_KEY 会话中保存视图 id 的键
	VIEW_SESSION_KEY = "view_id"
	// VIEW_ID_CTX 拦截器写入 gin.Context 的键
	VIEW_ID_CTX = "view_id"
)

// VIEW_STORE_CTX 拦截器写入的 *view.Store
const VIEW_STORE_CTX = "view_store"
