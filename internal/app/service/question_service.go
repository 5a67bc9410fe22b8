package service

import (
	"context"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	log          *zap.Logger
}

func NewQuestionService(questionRepo repository.QuestionRepository, answerRepo repository.AnswerRepository, log *zap.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		log:          named(log, "questions"),
	}
}

type SubmitQuestionRequest struct {
	Title string   `json:"title"`
	Code  string   `json:"code"`
	Tags  []string `json:"tags"`
}

type SubmitAnswerRequest struct {
	Content string `json:"content"`
	Code    string `json:"code"`
}

// Submit stores a new question. Questions from admins are published
// immediately; everyone else's wait for moderation.
func (s *QuestionService) Submit(ctx context.Context, sess *Session, req SubmitQuestionRequest) (*model.Question, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if blank(req.Title, req.Code) {
		return nil, common.Errorf("title and code are required: %w", common.ErrValidation)
	}

	status := model.StatusPending
	if sess.IsAdmin() {
		status = model.StatusApproved
	}
	q := &model.Question{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Code:      req.Code,
		Tags:      NormalizeTags(req.Tags),
		Author:    sess.User.AuthorRef(),
		CreatedAt: time.Now().UTC(),
		Status:    status,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	s.log.Info("question submitted", zap.String("question_id", q.ID), zap.String("status", string(q.Status)))
	return q, nil
}

// ListPublic returns approved questions, optionally only those carrying tag.
// Tags compare by slug, so "Go Lang" matches "go-lang".
func (s *QuestionService) ListPublic(ctx context.Context, tag string) ([]model.Question, error) {
	approved, err := s.questionRepo.ListByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tag) == "" {
		return approved, nil
	}
	want := slug.Make(tag)
	filtered := make([]model.Question, 0, len(approved))
	for _, q := range approved {
		for _, t := range q.Tags {
			if slug.Make(t) == want {
				filtered = append(filtered, q)
				break
			}
		}
	}
	return filtered, nil
}

// Get returns a question. Unapproved questions are visible only to admins and
// their author; sess may be nil for anonymous readers.
func (s *QuestionService) Get(ctx context.Context, sess *Session, id string) (*model.Question, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(sess, q) {
		return nil, fmt.Errorf("question %s: %w", id, common.ErrNotFound)
	}
	return q, nil
}

func (s *QuestionService) ListByStatus(ctx context.Context, sess *Session, status model.QuestionStatus) ([]model.Question, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if status == "" {
		return s.questionRepo.List(ctx)
	}
	if !status.Valid() {
		return nil, common.Errorf("unknown status %q: %w", status, common.ErrValidation)
	}
	return s.questionRepo.ListByStatus(ctx, status)
}

func (s *QuestionService) Approve(ctx context.Context, sess *Session, id string) (*model.Question, error) {
	return s.setStatus(ctx, sess, id, model.StatusApproved)
}

func (s *QuestionService) Reject(ctx context.Context, sess *Session, id string) (*model.Question, error) {
	return s.setStatus(ctx, sess, id, model.StatusRejected)
}

// Delete removes the question. Its answers are kept.
func (s *QuestionService) Delete(ctx context.Context, sess *Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("question deleted", zap.String("question_id", id), zap.String("by", sess.UserID()))
	return nil
}

// Answers lists a visible question's answers, most voted first; ties keep
// submission order.
func (s *QuestionService) Answers(ctx context.Context, sess *Session, questionID string) ([]model.Answer, error) {
	if _, err := s.Get(ctx, sess, questionID); err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(answers, func(a, b model.Answer) int { return b.Votes - a.Votes })
	return answers, nil
}

func (s *QuestionService) SubmitAnswer(ctx context.Context, sess *Session, questionID string, req SubmitAnswerRequest) (*model.Answer, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if blank(req.Content) {
		return nil, common.Errorf("answer content is required: %w", common.ErrValidation)
	}
	if _, err := s.Get(ctx, sess, questionID); err != nil {
		return nil, err
	}

	a := &model.Answer{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		Content:    req.Content,
		Code:       req.Code,
		Author:     sess.User.AuthorRef(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.answerRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return a, nil
}

// Vote adds one vote to an answer. Votes are not deduplicated per user.
func (s *QuestionService) Vote(ctx context.Context, sess *Session, answerID string) (*model.Answer, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return s.answerRepo.Vote(ctx, answerID)
}

func (s *QuestionService) setStatus(ctx context.Context, sess *Session, id string, status model.QuestionStatus) (*model.Question, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	q, err := s.questionRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("question moderated", zap.String("question_id", id), zap.String("status", string(status)))
	return q, nil
}

func canSee(sess *Session, q *model.Question) bool {
	if q.Status == model.StatusApproved {
		return true
	}
	return sess != nil && (sess.IsAdmin() || sess.UserID() == q.Author.ID)
}

// NormalizeTags splits comma-separated entries, trims them and drops empties.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, t := range strings.Split(entry, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
