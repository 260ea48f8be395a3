package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// GameIDPrefix is the storage-only prefix stripped when grouping statistics.
const GameIDPrefix = "game-"
