package repository

import (
	"context"
	"fmt"
	"logicode/internal/domain/model"
	"logicode/internal/store"

	"go.uber.org/zap"
)

type QuestionRepository interface {
	List(ctx context.Context) ([]model.Question, error)
	ListByStatus(ctx context.Context, status model.QuestionStatus) ([]model.Question, error)
	FindByID(ctx context.Context, id string) (*model.Question, error)
	Create(ctx context.Context, question *model.Question) error
	// UpdateStatus sets the moderation status. Setting the current status is a no-op.
	UpdateStatus(ctx context.Context, id string, status model.QuestionStatus) (*model.Question, error)
	Delete(ctx context.Context, id string) error
}

type kvQuestionRepository struct {
	questions collection[model.Question]
}

func NewKVQuestionRepository(s *store.Accessor, log *zap.Logger) QuestionRepository {
	return &kvQuestionRepository{
		questions: newCollection(s, store.KeyQuestions, "question", func(q *model.Question) string { return q.ID }, log),
	}
}

func (r *kvQuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	questions, _, err := r.questions.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvQuestionRepository.List: %w", err)
	}
	return questions, nil
}

func (r *kvQuestionRepository) ListByStatus(ctx context.Context, status model.QuestionStatus) ([]model.Question, error) {
	questions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.Status == status {
			filtered = append(filtered, q)
		}
	}
	return filtered, nil
}

func (r *kvQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	q, err := r.questions.find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("kvQuestionRepository.FindByID: %w", err)
	}
	return q, nil
}

func (r *kvQuestionRepository) Create(ctx context.Context, question *model.Question) error {
	if err := r.questions.insert(ctx, question.Clone()); err != nil {
		return fmt.Errorf("kvQuestionRepository.Create: %w", err)
	}
	return nil
}

func (r *kvQuestionRepository) UpdateStatus(ctx context.Context, id string, status model.QuestionStatus) (*model.Question, error) {
	var updated model.Question
	err := r.questions.update(ctx, func(questions []model.Question) ([]model.Question, error) {
		i := r.questions.index(questions, id)
		if i < 0 {
			return nil, r.questions.notFound(id)
		}
		updated = questions[i].Clone()
		if questions[i].Status == status {
			return nil, errUnchanged
		}
		questions[i].Status = status
		updated.Status = status
		return questions, nil
	})
	if err != nil {
		return nil, fmt.Errorf("kvQuestionRepository.UpdateStatus: %w", err)
	}
	return &updated, nil
}

func (r *kvQuestionRepository) Delete(ctx context.Context, id string) error {
	if err := r.questions.remove(ctx, id); err != nil {
		return fmt.Errorf("kvQuestionRepository.Delete: %w", err)
	}
	return nil
}
