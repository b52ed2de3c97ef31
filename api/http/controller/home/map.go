package home

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"geomap/api/api/common"
	"geomap/api/codes"
	"geomap/api/log"
	"geomap/api/service"
)

// GET /api/map/regions
func Regions(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}
	res.Data = service.GetMapService().Regions()
	c.JSON(http.StatusOK, res)
}

// GET /api/map/regions/search?q=&limit=
func SearchRegions(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}

	q := c.Query("q")
	if q == "" {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = "q is required"
		c.JSON(http.StatusOK, res)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := service.GetMapService().Search(q, limit)
	if err != nil {
		log.Error("search regions: ", err)
		res.Code = codes.CODE_ERR_UNKNOWN
		res.Msg = "search failed"
		c.JSON(http.StatusOK, res)
		return
	}
	res.Data = list
	c.JSON(http.StatusOK, res)
}

// GET /api/map/regions/:name/stats
func RegionStats(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}

	st, ok := service.GetMapService().Stat(c.Param("name"))
	if !ok {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = "no stats for region"
		c.JSON(http.StatusOK, res)
		return
	}
	res.Data = st.View()
	c.JSON(http.StatusOK, res)
}

// GET /api/map/render.png?w&h&zoom&ox&oy&selected
func RenderPNG(c *gin.Context) {
	var req service.FrameReq
	if err := c.ShouldBindQuery(&req); err != nil {
		badFrame(c, err)
		return
	}
	png, err := service.GetMapService().RenderPNG(c.Request.Context(), req)
	if err != nil {
		badFrame(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// POST /api/map/hit
// Body: {x, y, w?, h?, zoom?, offset?}
func HitTest(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}

	var req service.HitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = "invalid json body: " + err.Error()
		c.JSON(http.StatusOK, res)
		return
	}
	hit, err := service.GetMapService().HitTest(c.Request.Context(), req)
	if err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}
	res.Data = hit
	c.JSON(http.StatusOK, res)
}

func badFrame(c *gin.Context, err error) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_ERR_BAD_PARAMS, Msg: err.Error()}
	if !errors.Is(err, service.ErrBadFrame) {
		log.Warn("render frame: ", err)
	}
	c.JSON(http.StatusBadRequest, res)
}
