package model

import (
	"slices"
	"time"
)

type QuestionStatus string

const (
	StatusPending  QuestionStatus = "pending"
	StatusApproved QuestionStatus = "approved"
	StatusRejected QuestionStatus = "rejected"
)

func (s QuestionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Question struct {
	ID        string         `json:"id" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Code      string         `json:"code"`
	Tags      []string       `json:"tags"`
	Author    Author         `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	Status    QuestionStatus `json:"status" validate:"oneof=pending approved rejected"`
}

func (q Question) Clone() Question {
	q.Tags = slices.Clone(q.Tags)
	return q
}

type Answer struct {
	ID         string    `json:"id" validate:"required"`
	QuestionID string    `json:"questionId" validate:"required"`
	Content    string    `json:"content"`
	Code       string    `json:"code"`
	Author     Author    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	Votes      int       `json:"votes" validate:"min=0"`
}

// ModerationStats summarizes the question queue for the admin panel.
type ModerationStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Users    int `json:"users"`
}
