package repository

import (
	"context"
	"fmt"
	"logicode/internal/domain/model"
	"logicode/internal/store"

	"go.uber.org/zap"
)

type AnswerRepository interface {
	List(ctx context.Context) ([]model.Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]model.Answer, error)
	FindByID(ctx context.Context, id string) (*model.Answer, error)
	Create(ctx context.Context, answer *model.Answer) error
	// Vote adds one vote and returns the updated answer.
	Vote(ctx context.Context, id string) (*model.Answer, error)
	Delete(ctx context.Context, id string) error
}

type kvAnswerRepository struct {
	answers collection[model.Answer]
}

func NewKVAnswerRepository(s *store.Accessor, log *zap.Logger) AnswerRepository {
	return &kvAnswerRepository{
		answers: newCollection(s, store.KeyAnswers, "answer", func(a *model.Answer) string { return a.ID }, log),
	}
}

func (r *kvAnswerRepository) List(ctx context.Context) ([]model.Answer, error) {
	answers, _, err := r.answers.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvAnswerRepository.List: %w", err)
	}
	return answers, nil
}

func (r *kvAnswerRepository) ListByQuestion(ctx context.Context, questionID string) ([]model.Answer, error) {
	answers, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Answer, 0)
	for _, a := range answers {
		if a.QuestionID == questionID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (r *kvAnswerRepository) FindByID(ctx context.Context, id string) (*model.Answer, error) {
	a, err := r.answers.find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("kvAnswerRepository.FindByID: %w", err)
	}
	return a, nil
}

func (r *kvAnswerRepository) Create(ctx context.Context, answer *model.Answer) error {
	if err := r.answers.insert(ctx, *answer); err != nil {
		return fmt.Errorf("kvAnswerRepository.Create: %w", err)
	}
	return nil
}

func (r *kvAnswerRepository) Vote(ctx context.Context, id string) (*model.Answer, error) {
	var updated model.Answer
	err := r.answers.update(ctx, func(answers []model.Answer) ([]model.Answer, error) {
		i := r.answers.index(answers, id)
		if i < 0 {
			return nil, r.answers.notFound(id)
		}
		answers[i].Votes++
		updated = answers[i]
		return answers, nil
	})
	if err != nil {
		return nil, fmt.Errorf("kvAnswerRepository.Vote: %w", err)
	}
	return &updated, nil
}

func (r *kvAnswerRepository) Delete(ctx context.Context, id string) error {
	if err := r.answers.remove(ctx, id); err != nil {
		return fmt.Errorf("kvAnswerRepository.Delete: %w", err)
	}
	return nil
}
