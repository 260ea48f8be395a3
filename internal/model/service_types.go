package model

import "time"

// ActivityRef points at one activity inside one level (both 1-based).
type ActivityRef struct {
	Level    int `json:"level"`
	Activity int `json:"activity"`
}

// ProgressSnapshot is recomputed per request, never persisted.
// Percentage is 0 with a non-nil LastActivity when an attempt exists but the
// game has no configured activities (progress undefined).
type ProgressSnapshot struct {
	GameID                 string       `json:"gameId"`
	Percentage             float64      `json:"percentage"`
	AbsoluteActivityNumber int          `json:"absoluteActivityNumber"`
	TotalActivities        int          `json:"totalActivities"`
	LastActivity           *ActivityRef `json:"lastActivity"`
}

type AggregatedGameProgress struct {
	Completed     int `json:"completed"`
	AverageScore  int `json:"averageScore"`
	TotalTime     int `json:"totalTime"`
	TotalAttempts int `json:"totalAttempts"`
}

type StudentAggregate struct {
	TotalGamesPlayed int                               `json:"totalGamesPlayed"`
	AverageScore     int                               `json:"averageScore"`
	LastActivity     *time.Time                        `json:"lastActivity"`
	ProgressByGame   map[string]AggregatedGameProgress `json:"progressByGame"`
}

// GameStatistics is the teacher dashboard rollup: per-student aggregates
// combined across every student who played the game.
type GameStatistics struct {
	TotalStudents   int     `json:"totalStudents"`
	AveragePoints   float64 `json:"averagePoints"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	CompletionRate  float64 `json:"completionRate"`
}

type CourseGameProgress struct {
	StudentsPlayed    int     `json:"studentsPlayed"`
	AveragePercentage float64 `json:"averagePercentage"`
	AverageScore      float64 `json:"averageScore"`
	CompletedStudents int     `json:"completedStudents"`
}

type StudentReport struct {
	Report          string `json:"report"`
	StudentName     string `json:"studentName"`
	StudentLastname string `json:"studentLastname"`
}
