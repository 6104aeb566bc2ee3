package conversation

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/PabloGalante/stylist-agent/internal/domain"
	"github.com/PabloGalante/stylist-agent/internal/observability"
)

// DefaultMaxTokens caps the length of each model reply.
const DefaultMaxTokens = 100

type Service struct {
	llm          domain.LLMClient
	sessionStore domain.SessionStore
	orders       domain.OrderHistoryProvider
	searcher     domain.ProductSearcher
	maxTokens    int
}

type Option func(*Service)

// WithMaxTokens overrides DefaultMaxTokens.
func WithMaxTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

func NewService(
	llm domain.LLMClient,
	sessionStore domain.SessionStore,
	orders domain.OrderHistoryProvider,
	searcher domain.ProductSearcher,
	opts ...Option,
) *Service {
	s := &Service{
		llm:          llm,
		sessionStore: sessionStore,
		orders:       orders,
		searcher:     searcher,
		maxTokens:    DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type StartSessionInput struct {
	BearerToken string
}

type StartSessionOutput struct {
	SessionID  domain.SessionID
	Transcript domain.Transcript
}

// StartSession reads the shopper's persona and order history and stores the
// seed transcript. Order history is optional context: when it cannot be
// fetched the session starts without it. The persona is required.
func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	if strings.TrimSpace(in.BearerToken) == "" {
		return nil, domain.ErrMissingAuth
	}

	log := observability.LoggerFromContext(ctx)
	log.Info().Msg("starting new session")

	orders := s.orders.ForToken(in.BearerToken)

	var (
		persona string
		history []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		persona, err = orders.FetchPersonaDescription(gctx)
		return err
	})
	g.Go(func() error {
		products, err := orders.FetchProductHistory(gctx)
		if err != nil {
			log.Warn().Err(err).Msg("order history unavailable, continuing without it")
			return nil
		}
		history = products
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to fetch persona")
		return nil, err
	}

	seed := BuildSeedTranscript(persona, history)

	id, err := s.sessionStore.Create(ctx, seed)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		return nil, errors.Wrap(err, "create session")
	}

	log.Info().
		Str("session_id", string(id)).
		Int("products", len(history)).
		Int("seed_turns", len(seed)).
		Msg("session started")

	return &StartSessionOutput{SessionID: id, Transcript: seed}, nil
}

type TalkInput struct {
	SessionID domain.SessionID
	Turns     []domain.Turn
}

// Talk runs one chat turn. When the model produces a search string the
// search results are returned and the stored transcript is left as it was;
// otherwise the reply is appended and the transcript saved.
func (s *Service) Talk(ctx context.Context, in TalkInput) (*domain.TalkReply, error) {
	log := observability.LoggerFromContext(ctx).With().
		Str("session_id", string(in.SessionID)).
		Logger()

	stored, err := s.sessionStore.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			log.Error().Err(err).Msg("failed to load session")
		}
		return nil, err
	}

	turn := newChatTurn(stored)
	if err := turn.appendCallerTurns(in.Turns); err != nil {
		return nil, err
	}

	messages := turn.prepareModelCall()
	log.Debug().Int("turns", len(messages)).Msg("calling model")

	reply, err := s.llm.Complete(ctx, domain.CompletionRequest{Turns: messages, MaxTokens: s.maxTokens})
	if err != nil {
		log.Error().Err(err).Msg("model call failed")
		return nil, err
	}
	if strings.TrimSpace(reply) == "" {
		return nil, errors.Wrap(domain.ErrMalformedReply, "empty reply")
	}
	log.Info().Msg("response created")

	turn.receiveReply(reply)

	switch turn.state {
	case stateTerminalSearch:
		log.Info().Str("search_string", turn.query).Msg("final search term to be returned")
		results, err := s.searcher.Search(ctx, turn.query)
		if err != nil {
			log.Error().Err(err).Msg("search relay failed")
			return nil, err
		}
		observability.CountTalkOutcome(string(domain.ReplyTypeSearchResults))
		return &domain.TalkReply{Type: domain.ReplyTypeSearchResults, Results: results}, nil

	case stateContinue:
		transcript, _ := turn.persistable()
		if err := s.sessionStore.Save(ctx, in.SessionID, transcript); err != nil {
			log.Error().Err(err).Msg("failed to save session")
			return nil, errors.Wrap(err, "save session")
		}
		log.Info().Int("turns", len(transcript)).Msg("continue conversation")
		observability.CountTalkOutcome(string(domain.ReplyTypeText))
		return &domain.TalkReply{Type: domain.ReplyTypeText, Text: reply}, nil

	default:
		return nil, errors.Errorf("chat turn ended in state %s", turn.state)
	}
}
