package api

import (
	"context"
	"net/http"

	"maji/local-app/internal/model"
)

// ListSurveys fetches the survey questions
func (c *Client) ListSurveys(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	if err := c.do(ctx, http.MethodGet, "/Encuesta", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SubmitAnswer stores one answer to one question
func (c *Client) SubmitAnswer(ctx context.Context, answer model.AnswerSubmission) (*model.AnswerRecord, error) {
	var record model.AnswerRecord
	if err := c.do(ctx, http.MethodPost, "/RespuestaEncuesta", answer, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
