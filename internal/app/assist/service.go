package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atomflow/internal/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no Gemini API key was supplied. Callers
// surface a transient failure and leave the card untouched.
var ErrNotConfigured = errors.New("assist: GEMINI_API_KEY is not set")

type Service interface {
	EnhanceDescription(ctx context.Context, title, description string) (string, error)
	SuggestSubtasks(ctx context.Context, title, description string) (string, error)
}

type service struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.SugaredLogger
}

func NewService(cfg *config.Config, logger *zap.Logger) (Service, error) {
	s := &service{
		model:   cfg.GeminiModel,
		timeout: cfg.AssistTimeout,
		logger:  logger.Sugar(),
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, assist endpoints will be unavailable")
		return s, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	s.client = client

	logger.Info("Gemini assist enabled", zap.String("model", cfg.GeminiModel))
	return s, nil
}

func (s *service) EnhanceDescription(ctx context.Context, title, description string) (string, error) {
	if description == "" {
		description = "Nenhuma descrição fornecida."
	}
	prompt := fmt.Sprintf(`Você é um gerente de produto especialista.
Refine a seguinte descrição de cartão Kanban para ser mais acionável, clara e concisa.
Mantenha o tom profissional, mas simples. Responda em Português do Brasil.

Título do Cartão: %s
Descrição Atual: %s

Retorne APENAS o texto da descrição refinada, sem blocos de código markdown.`, title, description)

	return s.generate(ctx, prompt)
}

func (s *service) SuggestSubtasks(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(`Com base na tarefa a seguir, sugira uma lista de verificação de 3 a 5 subtarefas para concluí-la.
Formate como uma lista simples com marcadores. Responda em Português do Brasil.

Tarefa: %s
Detalhes: %s`, title, description)

	return s.generate(ctx, prompt)
}

func (s *service) generate(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		s.logger.Errorw("Gemini request failed", "model", s.model, "error", err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}
