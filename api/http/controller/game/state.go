package game

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"geomap/api/api/common"
	"geomap/api/codes"
	"geomap/api/log"
	"geomap/api/service"
	"geomap/api/tools"

	"github.com/gin-gonic/gin"
)

// SaveReq player 接受任意 JSON 标量并按字符串保存
type SaveReq struct {
	Player json.RawMessage `json:"player"`
	Data   tools.JSON      `json:"data"`
}

// GET /api/game/state
// 返回最近更新的文档；没有时返回 null
func GetState(c *gin.Context) {
	g, err := service.GetGameService().Latest(c.Request.Context())
	if err != nil {
		log.Error("load game state: ", err)
		res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_ERR_STORAGE, Msg: "load state failed"}
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	if g == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, g)
}

// POST /api/game/state
// Body: {player?, data?}；返回 {"success": true}
// 空 body 与数组 body 按 {} 处理；标量 body 返回 400
func SaveState(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}

	raw, err := c.GetRawData()
	if err != nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "read body failed"
		c.JSON(http.StatusBadRequest, res)
		return
	}
	var req SaveReq
	body := bytes.TrimSpace(raw)
	switch {
	case len(body) == 0:
	case body[0] == '[':
		if !json.Valid(body) {
			res.Code = codes.CODE_ERR_REQFORMAT
			res.Msg = "invalid json body"
			c.JSON(http.StatusBadRequest, res)
			return
		}
	case body[0] == '{':
		if err := json.Unmarshal(body, &req); err != nil {
			res.Code = codes.CODE_ERR_REQFORMAT
			res.Msg = "invalid json body: " + err.Error()
			c.JSON(http.StatusBadRequest, res)
			return
		}
	default:
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "json body must be an object"
		c.JSON(http.StatusBadRequest, res)
		return
	}

	player, err := tools.ScalarString(req.Player)
	if err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = "player: " + err.Error()
		c.JSON(http.StatusBadRequest, res)
		return
	}

	if _, err := service.GetGameService().Save(c.Request.Context(), player, req.Data); err != nil {
		log.Error("save game state: ", err)
		res.Code = codes.CODE_ERR_STORAGE
		res.Msg = "save state failed"
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
