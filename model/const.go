package model

const (
	TB_SAVED_GAME = "saved_games"
)
