package model

import (
	"slices"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// XPPerLevel is the experience needed to climb one level.
const XPPerLevel = 100

type User struct {
	ID                   string    `json:"id" validate:"required"`
	Name                 string    `json:"name"`
	Email                string    `json:"email" validate:"required"`
	Password             string    `json:"password,omitempty"`
	XP                   int       `json:"xp" validate:"min=0"`
	Level                *int      `json:"level,omitempty"`
	Streak               int       `json:"streak" validate:"min=0"`
	Rank                 *int      `json:"rank,omitempty"`
	CompletedChallenges  []string  `json:"completedChallenges"`
	InProgressChallenges []string  `json:"inProgressChallenges"`
	Achievements         []string  `json:"achievements"`
	CreatedAt            time.Time `json:"createdAt"`
	Role                 string    `json:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasCompleted(challengeID string) bool {
	return slices.Contains(u.CompletedChallenges, challengeID)
}

func (u *User) IsInProgress(challengeID string) bool {
	return slices.Contains(u.InProgressChallenges, challengeID)
}

// MarkInProgress records that the user started challengeID. Completed
// challenges never move back. Reports whether anything changed.
func (u *User) MarkInProgress(challengeID string) bool {
	if u.HasCompleted(challengeID) || u.IsInProgress(challengeID) {
		return false
	}
	u.InProgressChallenges = append(u.InProgressChallenges, challengeID)
	return true
}

// MarkCompleted moves challengeID to the completed set. Reports whether
// anything changed.
func (u *User) MarkCompleted(challengeID string) bool {
	before := len(u.InProgressChallenges)
	u.InProgressChallenges = slices.DeleteFunc(u.InProgressChallenges, func(id string) bool {
		return id == challengeID
	})
	changed := len(u.InProgressChallenges) != before
	if !u.HasCompleted(challengeID) {
		u.CompletedChallenges = append(u.CompletedChallenges, challengeID)
		changed = true
	}
	return changed
}

// CurrentLevel derives the level from XP; the stored level is informational.
func (u *User) CurrentLevel() int {
	return u.XP/XPPerLevel + 1
}

// Clone returns a deep copy.
func (u User) Clone() User {
	u.CompletedChallenges = slices.Clone(u.CompletedChallenges)
	u.InProgressChallenges = slices.Clone(u.InProgressChallenges)
	u.Achievements = slices.Clone(u.Achievements)
	if u.Level != nil {
		level := *u.Level
		u.Level = &level
	}
	if u.Rank != nil {
		rank := *u.Rank
		u.Rank = &rank
	}
	return u
}

// Sanitized is the copy safe to hand to clients.
func (u User) Sanitized() User {
	c := u.Clone()
	c.Password = ""
	return c
}

// AuthorRef is the denormalized author stamp carried by questions and answers.
func (u *User) AuthorRef() Author {
	return Author{ID: u.ID, Name: u.Name, Email: u.Email}
}

type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
