package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

// Store keeps transcripts as JSON blobs with a TTL.
type Store struct {
	client *goredis.Client
	ttl    time.Duration
	prefix string
	newID  func() string
}

type Option func(*Store)

// WithTTL sets how long a transcript lives after each write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Default is "stylist".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func NewStore(client *goredis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		ttl:    domain.DefaultSessionTTL,
		prefix: "stylist",
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(id domain.SessionID) string {
	return s.prefix + ":conversation:" + string(id)
}

// Create stores a new transcript under a fresh id. SETNX guards against the
// (unlikely) reuse of an id that is still live.
func (s *Store) Create(ctx context.Context, transcript domain.Transcript) (domain.SessionID, error) {
	data, err := json.Marshal(transcript)
	if err != nil {
		return "", errors.Wrap(err, "marshal transcript")
	}

	id := domain.SessionID(s.newID())
	ok, err := s.client.SetNX(ctx, s.key(id), data, s.ttl).Result()
	if err != nil {
		return "", errors.Wrap(err, "redis setnx")
	}
	if !ok {
		return "", errors.Errorf("session id %s already in use", id)
	}
	return id, nil
}

func (s *Store) Load(ctx context.Context, id domain.SessionID) (domain.Transcript, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "redis get")
	}

	var transcript domain.Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, errors.Wrapf(err, "decode transcript %s", id)
	}
	return transcript, nil
}

// Save overwrites the transcript and refreshes its TTL.
func (s *Store) Save(ctx context.Context, id domain.SessionID, transcript domain.Transcript) error {
	if id == "" {
		return domain.ErrSessionNotFound
	}

	data, err := json.Marshal(transcript)
	if err != nil {
		return errors.Wrap(err, "marshal transcript")
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}
