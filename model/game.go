package model

import (
	"fmt"
	"time"

	"geomap/api/tools"
)

// SavedGame 一条保存的游戏状态；只追加，最新一条以 updated_at 决定
type SavedGame struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Player    *string    `gorm:"column:player;size:128" json:"player,omitempty"`
	Data      tools.JSON `gorm:"column:data" json:"data,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime;index" json:"updatedAt"`
}

func (SavedGame) TableName() string {
	return TB_SAVED_GAME
}

// NewerThan 按 (updated_at, id) 比较，与 Latest 的排序一致；o 为 nil 时视为更新
func (g *SavedGame) NewerThan(o *SavedGame) bool {
	if o == nil {
		return true
	}
	if !g.UpdatedAt.Equal(o.UpdatedAt) {
		return g.UpdatedAt.After(o.UpdatedAt)
	}
	return g.ID > o.ID
}

// Version 可按字典序比较的 (updated_at, id)，供缓存做比较写入
func (g *SavedGame) Version() string {
	return fmt.Sprintf("%020d:%020d", g.UpdatedAt.UnixNano(), g.ID)
}
