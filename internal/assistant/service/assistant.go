package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"stayhost/internal/assistant/catalog"
	"stayhost/internal/assistant/completion"
	"stayhost/internal/assistant/prompt"
	"stayhost/internal/assistant/throttle"
	"stayhost/pkg/config"
	apperrors "stayhost/pkg/errors"
	"stayhost/pkg/events"
	"stayhost/pkg/logger"
	"stayhost/pkg/model"
	"stayhost/pkg/validation"
)

// Caller-facing messages.
const (
	MsgMissingInput  = "Fornisci una domanda (query) oppure una conversazione (messages)."
	MsgInvalidInput  = "La richiesta non è valida."
	MsgNotConfigured = "Il servizio AI non è configurato. Contatta l'amministratore del sito."
	MsgRateLimited   = "Hai raggiunto il limite di richieste. Riprova tra %d %s."
	MsgDailyLimit    = "È stato raggiunto il limite giornaliero di richieste. Riprova domani."
	MsgTimeout       = "Il servizio AI ha impiegato troppo tempo a rispondere. Riprova tra poco."
	MsgUpstream      = "Il servizio AI ha restituito un errore. Riprova più tardi."
	MsgInternal      = apperrors.MsgUnexpected
	MsgEmptyResponse = "Il servizio AI non ha restituito alcuna risposta. Riprova più tardi."
)

// RateLimitedMessage tells the caller how many minutes are left in the window.
func RateLimitedMessage(minutes int) string {
	unit := "minuti"
	if minutes == 1 {
		unit = "minuto"
	}
	return fmt.Sprintf(MsgRateLimited, minutes, unit)
}

// Completer is the hosted chat-completion backend.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, req *completion.Request) (*completion.Response, error)
}

// RequestMeta carries what the transport knows about the caller.
type RequestMeta struct {
	CallerID  string
	Origin    string
	RequestID string
}

type AssistantService interface {
	Ask(ctx context.Context, req *model.AssistantRequest, meta RequestMeta) (*model.AssistantResponse, error)
}

type assistantService struct {
	throttle  *throttle.Throttle
	catalog   catalog.Provider
	completer Completer
	builder   *prompt.Builder
	publisher events.Publisher
	validate  *validator.Validate
	settings  config.AssistantConfig

	catalogTimeout time.Duration
	log            *logger.Logger
}

func NewAssistantService(
	throttle *throttle.Throttle,
	catalog catalog.Provider,
	completer Completer,
	publisher events.Publisher,
	cfg *config.Config,
) AssistantService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &assistantService{
		throttle:       throttle,
		catalog:        catalog,
		completer:      completer,
		builder:        prompt.NewBuilder(cfg.Assistant.Name, cfg.Assistant.OwnerName),
		publisher:      publisher,
		validate:       validation.New(),
		settings:       cfg.Assistant,
		catalogTimeout: cfg.CatalogTimeout,
		log:            cfg.Log,
	}
}

// Ask runs one assistant turn. Input and configuration problems are reported
// before the throttle counts the request; throttled requests never reach the
// catalog or the completion backend.
func (s *assistantService) Ask(ctx context.Context, req *model.AssistantRequest, meta RequestMeta) (*model.AssistantResponse, error) {
	start := time.Now()
	log := s.log.WithRequest(meta.RequestID, meta.CallerID)

	if err := s.validateRequest(req); err != nil {
		log.Warn("Assistant request rejected", "error", err)
		return nil, err
	}

	if s.completer == nil || !s.completer.Configured() {
		log.Error("Assistant request failed: completion backend has no API key")
		s.publishOutcome(ctx, events.AssistantFailed, meta, outcome{Code: apperrors.CodeNotConfigured})
		return nil, apperrors.NotConfigured(MsgNotConfigured)
	}

	decision := s.throttle.Check(meta.CallerID)
	if !decision.Allowed {
		err := throttledError(decision)
		log.Warn("Assistant request throttled",
			"scope", decision.Scope,
			"retry_after", decision.RetryAfter,
			"remaining", decision.Remaining,
		)
		s.publishOutcome(ctx, events.AssistantThrottled, meta, outcome{
			Code:      apperrors.AsAppError(err).Code,
			Scope:     string(decision.Scope),
			Remaining: decision.Remaining,
		})
		return nil, err
	}

	filter := CatalogFilter(req)
	records := s.fetchCatalogOrEmpty(ctx, filter, log)

	system := s.builder.Build(records, meta.Origin).Render()
	conversation := prompt.Conversation(system, req)

	resp, err := s.completer.Complete(ctx, &completion.Request{
		Model:       s.settings.Model,
		Messages:    toCompletionMessages(conversation),
		Temperature: s.settings.Temperature,
		MaxTokens:   s.settings.MaxTokens,
	})
	if err != nil {
		appErr := completionError(err)
		log.Error("Completion request failed",
			"code", appErr.Code,
			"status", appErr.StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		s.publishOutcome(ctx, events.AssistantFailed, meta, outcome{
			Code:        appErr.Code,
			Remaining:   decision.Remaining,
			CatalogSize: len(records),
			DurationMs:  time.Since(start).Milliseconds(),
		})
		return nil, appErr
	}

	answer := &model.AssistantResponse{
		Success:           true,
		Response:          resp.Content,
		Model:             s.settings.ModelName,
		RemainingRequests: decision.Remaining,
		Images:            prompt.ParseImageRefs(resp.Content),
	}
	if len(req.Messages) == 0 {
		answer.Query = strings.TrimSpace(req.Query)
	}

	log.Info("Assistant request answered",
		"catalog_size", len(records),
		"guests", filter.Guests,
		"images", len(answer.Images),
		"remaining", decision.Remaining,
		"finish_reason", resp.FinishReason,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.publishOutcome(ctx, events.AssistantAnswered, meta, outcome{
		Remaining:   decision.Remaining,
		CatalogSize: len(records),
		Images:      len(answer.Images),
		DurationMs:  time.Since(start).Milliseconds(),
		Usage:       resp.Usage,
	})

	return answer, nil
}

func (s *assistantService) validateRequest(req *model.AssistantRequest) error {
	if req == nil || (strings.TrimSpace(req.Query) == "" && len(req.Messages) == 0) {
		return apperrors.InvalidInput(MsgMissingInput)
	}

	err := validation.Struct(s.validate, req, requestFieldMessage)
	if err == nil {
		return nil
	}

	var errs validation.ValidationErrors
	if errors.As(err, &errs) {
		return apperrors.InvalidInput(MsgInvalidInput).WithDetails(errs.Details())
	}
	return apperrors.InvalidInput(MsgInvalidInput)
}

// fetchCatalogOrEmpty degrades to an empty catalog when the provider fails
// or does not answer within the catalog timeout. The assistant still answers,
// only without grounding data.
func (s *assistantService) fetchCatalogOrEmpty(ctx context.Context, filter model.AccommodationFilter, log *logger.Logger) []*model.Accommodation {
	if s.catalog == nil {
		return nil
	}

	if s.catalogTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.catalogTimeout)
		defer cancel()
	}

	records, err := s.catalog.ListActive(ctx, filter)
	if err != nil {
		log.Warn("Catalog unavailable, answering with an empty catalog",
			"guests", filter.Guests,
			"location", filter.Location,
			"error", err,
		)
		return nil
	}
	return records
}

func throttledError(d throttle.Decision) error {
	seconds := int(math.Ceil(d.RetryAfter.Seconds()))
	if d.Scope == throttle.ScopeDaily {
		return apperrors.DailyLimitExceeded(MsgDailyLimit, seconds)
	}
	return apperrors.RateLimited(RateLimitedMessage(d.MinutesLeft()), seconds)
}

func completionError(err error) *apperrors.AppError {
	var providerErr *completion.ProviderError
	switch {
	case errors.Is(err, completion.ErrNotConfigured):
		return apperrors.NotConfigured(MsgNotConfigured)
	case errors.Is(err, completion.ErrTimeout):
		return apperrors.Timeout(MsgTimeout, err)
	case errors.As(err, &providerErr):
		return apperrors.Upstream(providerErr.StatusCode, MsgUpstream, providerErr.Payload(), err)
	case errors.Is(err, completion.ErrEmptyResponse):
		return apperrors.Upstream(0, MsgEmptyResponse, nil, err)
	default:
		return apperrors.Internal(MsgInternal, err)
	}
}

var guestsPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:persone|persona|ospiti|ospite|adulti|people|guests)\b`)

// CatalogFilter returns the filter forwarded to the catalog. Explicit hints
// win; otherwise a guest count is read from the latest user text
// ("per 4 persone").
func CatalogFilter(req *model.AssistantRequest) model.AccommodationFilter {
	filter := model.AccommodationFilter{
		Guests:   req.Guests,
		Location: strings.TrimSpace(req.Location),
	}
	if filter.Guests > 0 {
		return filter
	}

	text := req.Query
	if len(req.Messages) > 0 {
		text = ""
		for i := len(req.Messages) - 1; i >= 0; i-- {
			if req.Messages[i].Role == model.RoleUser {
				text = req.Messages[i].Content
				break
			}
		}
	}

	if m := guestsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			filter.Guests = n
		}
	}
	return filter
}

func toCompletionMessages(msgs []model.ChatMessage) []completion.Message {
	out := make([]completion.Message, len(msgs))
	for i, m := range msgs {
		out[i] = completion.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

func requestFieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obbligatorio"
	case "oneof":
		return "valore non ammesso, usa uno tra: " + fe.Param()
	case "max":
		return "valore troppo lungo o troppo grande (massimo " + fe.Param() + ")"
	case "min":
		return "valore troppo piccolo (minimo " + fe.Param() + ")"
	default:
		return "valore non valido"
	}
}

type outcome struct {
	Code        string            `json:"code,omitempty"`
	Scope       string            `json:"scope,omitempty"`
	Remaining   int               `json:"remaining"`
	CatalogSize int               `json:"catalog_size"`
	Images      int               `json:"images"`
	DurationMs  int64             `json:"duration_ms"`
	Usage       *completion.Usage `json:"usage,omitempty"`
}

type outcomePayload struct {
	outcome
	CallerID string `json:"caller_id"`
	Model    string `json:"model"`
}

func (s *assistantService) publishOutcome(ctx context.Context, eventType string, meta RequestMeta, o outcome) {
	events.PublishBestEffort(ctx, s.publisher, s.log, events.Event{
		Type:          eventType,
		Key:           meta.CallerID,
		CorrelationID: meta.RequestID,
		Payload: outcomePayload{
			outcome:  o,
			CallerID: meta.CallerID,
			Model:    s.settings.Model,
		},
	})
}
