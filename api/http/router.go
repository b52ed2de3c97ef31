package http

import (
	"github.com/gin-gonic/gin"

	"geomap/api/api/http/controller/game"
	"geomap/api/api/http/controller/home"
	"geomap/api/api/interceptor"
)

func Routers(e *gin.RouterGroup) {

	gameGroup := e.Group("/game")
	gameGroup.GET("/state", game.GetState)
	gameGroup.POST("/state", game.SaveState)

	mapGroup := e.Group("/map")
	mapGroup.GET("/regions", home.Regions)
	mapGroup.GET("/regions/search", home.SearchRegions)
	mapGroup.GET("/regions/:name/stats", home.RegionStats)
	mapGroup.GET("/render.png", home.RenderPNG)
	mapGroup.POST("/hit", home.HitTest)

	viewGroup := mapGroup.Group("", interceptor.ViewSession())
	viewGroup.GET("/view", home.GetView)
	viewGroup.POST("/view/events", home.PostViewEvent)
	viewGroup.GET("/view/frame.png", home.ViewFrame)
	viewGroup.GET("/ws", home.Live)
}
