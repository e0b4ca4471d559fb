package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/muktihq/companion-api/internal/core/domain"
	"github.com/muktihq/companion-api/internal/core/ports"
)

// ChatOptions configures the turn loop. Zero values fall back to the
// deployment defaults applied in NewChatService.
type ChatOptions struct {
	Model         string
	FallbackModel string
	HistoryDepth  int
	PromptWindow  int
	UnlockCode    string
	Attempts      int
	Backoff       time.Duration
	Limits        LimitConfig
}

// ChatService orchestrates turn-taking: it intercepts unlock codes and
// onboarding answers before the model-call path, enforces the daily budget,
// and persists accepted turns to the record store.
type ChatService struct {
	repo       ports.UserRepository
	completion ports.CompletionClient
	limiter    limiter
	opts       ChatOptions
	log        zerolog.Logger
	now        func() time.Time
}

func NewChatService(repo ports.UserRepository, completion ports.CompletionClient, usage ports.UsageCounter, opts ChatOptions, log zerolog.Logger) *ChatService {
	if opts.HistoryDepth <= 0 {
		opts.HistoryDepth = 30
	}
	if opts.PromptWindow <= 0 {
		opts.PromptWindow = 5
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Limits.LimitNew <= 0 {
		opts.Limits.LimitNew = 10
	}
	if opts.Limits.LimitReturning <= 0 {
		opts.Limits.LimitReturning = 5
	}
	return &ChatService{
		repo:       repo,
		completion: completion,
		limiter:    limiter{usage: usage, cfg: opts.Limits, log: log},
		opts:       opts,
		log:        log,
		now:        time.Now,
	}
}

// Submit runs a single turn for the authenticated user.
func (s *ChatService) Submit(ctx context.Context, username, text string) (*ports.ChatResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// Unlock codes are recognized before the lock gate and consume no
	// model call.
	if s.opts.UnlockCode != "" && text == s.opts.UnlockCode {
		s.applyUnlock(ctx, user)
		return &ports.ChatResult{
			Kind:  ports.TurnKindUnlock,
			Reply: "Unlock accepted. The daily limit no longer applies to you.",
		}, nil
	}

	today := s.now().UTC()
	if s.limiter.isLocked(ctx, user, today) {
		return nil, domain.ErrRateLimited
	}

	if step, done := s.onboardingStep(user); !done {
		return s.recordOnboardingAnswer(ctx, user, step, text), nil
	}

	return s.modelTurn(ctx, user, text, today)
}

// Unlock applies an unlock code outside of the chat flow.
func (s *ChatService) Unlock(ctx context.Context, username, code string) error {
	if s.opts.UnlockCode == "" || strings.TrimSpace(code) != s.opts.UnlockCode {
		return domain.ErrInvalidUnlockCode
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	s.applyUnlock(ctx, user)
	return nil
}

func (s *ChatService) applyUnlock(ctx context.Context, user *domain.User) {
	if user.VIP {
		return
	}
	user.VIP = true
	if err := s.repo.SetVIP(ctx, user.Username); err != nil {
		s.log.Warn().Err(err).Str("username", user.Username).Msg("failed to persist vip flag")
	}
	s.log.Info().Str("username", user.Username).Msg("rate limit unlocked")
}

func (s *ChatService) onboardingStep(user *domain.User) (domain.OnboardingStep, bool) {
	pos, done := domain.OnboardingPosition(user.Profile)
	if done {
		return domain.OnboardingStep{}, true
	}
	return domain.OnboardingScript[pos], false
}

// recordOnboardingAnswer stores the input verbatim under the current step's
// profile key and returns the next question. The completion backend is
// never called while onboarding is underway.
func (s *ChatService) recordOnboardingAnswer(ctx context.Context, user *domain.User, step domain.OnboardingStep, text string) *ports.ChatResult {
	if err := s.repo.SetProfileValue(ctx, user.Username, step.Key, text); err != nil {
		s.log.Warn().Err(err).Str("username", user.Username).Str("key", step.Key).Msg("failed to persist profile answer")
	}
	if user.Profile == nil {
		user.Profile = map[string]string{}
	}
	user.Profile[step.Key] = text

	reply := domain.OnboardingCompleteMessage
	if pos, done := domain.OnboardingPosition(user.Profile); !done {
		reply = domain.OnboardingScript[pos].Question
	} else {
		s.log.Info().Str("username", user.Username).Msg("onboarding complete")
	}

	user.History = append(user.History,
		domain.Message{Role: domain.RoleUser, Content: text},
		domain.Message{Role: domain.RoleAssistant, Content: reply},
	)
	s.persistHistory(ctx, user)

	return &ports.ChatResult{Kind: ports.TurnKindOnboarding, Reply: reply}
}

// modelTurn sends the bounded-context prompt to the completion backend. On
// total failure nothing is appended and nothing is persisted.
func (s *ChatService) modelTurn(ctx context.Context, user *domain.User, text string, today time.Time) (*ports.ChatResult, error) {
	user.History = append(user.History, domain.Message{Role: domain.RoleUser, Content: text})
	prompt := buildPrompt(user, s.opts.PromptWindow)

	reply, err := s.generate(ctx, s.opts.Model, prompt)
	if err != nil && s.opts.FallbackModel != "" {
		s.log.Warn().Err(err).Str("model", s.opts.Model).Str("fallback", s.opts.FallbackModel).Msg("primary model exhausted, trying fallback")
		reply, err = s.completion.Generate(ctx, s.opts.FallbackModel, prompt)
	}
	if err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("completion failed after retries")
		return nil, domain.ErrModelExhausted
	}

	user.History = append(user.History, domain.Message{Role: domain.RoleAssistant, Content: reply})
	s.persistHistory(ctx, user)

	if s.limiter.usage != nil {
		if err := s.limiter.usage.Increment(ctx, user.Username, today); err != nil {
			s.log.Warn().Err(err).Str("username", user.Username).Msg("failed to record usage")
		}
	}

	return &ports.ChatResult{Kind: ports.TurnKindChat, Reply: reply}, nil
}

// generate retries the primary model with a constant backoff. All backend
// errors are treated as retryable; context cancellation stops the loop.
func (s *ChatService) generate(ctx context.Context, model, prompt string) (string, error) {
	var reply string
	backoff := retry.WithMaxRetries(uint64(s.opts.Attempts-1), retry.NewConstant(s.opts.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var genErr error
		reply, genErr = s.completion.Generate(ctx, model, prompt)
		if genErr != nil {
			return retry.RetryableError(genErr)
		}
		return nil
	})
	return reply, err
}

// persistHistory truncates to the retention depth and writes through.
// Write failures are logged and swallowed: the in-memory session state
// remains authoritative for the rest of the session.
func (s *ChatService) persistHistory(ctx context.Context, user *domain.User) {
	user.History = domain.TruncateHistory(user.History, s.opts.HistoryDepth)
	if err := s.repo.SaveHistory(ctx, user.Username, user.History); err != nil {
		s.log.Warn().Err(err).Str("username", user.Username).Msg("failed to persist history")
	}
}
