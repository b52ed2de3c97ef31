package home

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"geomap/api/api/common"
	"geomap/api/codes"
	"geomap/api/model"
	"geomap/api/render"
	"geomap/api/service"
	"geomap/api/view"
)

// ViewResp 会话视图快照，选中区域有统计时附带
type ViewResp struct {
	view.Snapshot
	ViewID string          `json:"viewId"`
	Stat   *model.StatView `json:"stat,omitempty"`
}

func viewStore(c *gin.Context) *view.Store {
	if v, ok := c.Get(common.VIEW_STORE_CTX); ok {
		if s, ok := v.(*view.Store); ok {
			return s
		}
	}
	return nil
}

func toViewResp(id string, snap view.Snapshot) ViewResp {
	out := ViewResp{Snapshot: snap, ViewID: id}
	if snap.View.Selected != "" {
		if st, ok := service.GetMapService().Stat(snap.View.Selected); ok {
			sv := st.View()
			out.Stat = &sv
		}
	}
	return out
}

// GET /api/map/view
func GetView(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}
	res.Data = toViewResp(c.GetString(common.VIEW_ID_CTX), viewStore(c).Snapshot())
	c.JSON(http.StatusOK, res)
}

// POST /api/map/view/events
// Body: view.Event
func PostViewEvent(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}

	var ev view.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = "invalid json body: " + err.Error()
		c.JSON(http.StatusOK, res)
		return
	}
	if err := ev.Validate(); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}
	snap := viewStore(c).Dispatch(ev)
	res.Data = toViewResp(c.GetString(common.VIEW_ID_CTX), snap)
	c.JSON(http.StatusOK, res)
}

// GET /api/map/view/frame.png
func ViewFrame(c *gin.Context) {
	png, err := drawFrame(viewStore(c))
	if err != nil {
		badFrame(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func drawFrame(s *view.Store) ([]byte, error) {
	vp := s.Snapshot().Viewport
	dst := render.NewRaster(int(vp.Width), int(vp.Height))
	s.Draw(dst)
	return service.EncodeRaster(dst)
}
