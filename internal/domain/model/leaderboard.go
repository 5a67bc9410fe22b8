package model

type LeaderboardEntry struct {
	Rank                int    `json:"rank"`
	UserID              string `json:"userId"`
	Name                string `json:"name"`
	XP                  int    `json:"xp"`
	Level               int    `json:"level"`
	Streak              int    `json:"streak"`
	ChallengesCompleted int    `json:"challengesCompleted"`
}

// Dashboard is the per-user progress overview.
type Dashboard struct {
	User            User        `json:"user"`
	Level           int         `json:"level"`
	XPForNextLevel  int         `json:"xpForNextLevel"`
	LevelProgress   int         `json:"levelProgress"`
	Recommended     []Challenge `json:"recommended"`
	InProgress      []Challenge `json:"inProgress"`
	Completed       []Challenge `json:"completed"`
	TotalChallenges int         `json:"totalChallenges"`
}
