package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

// Store keeps one document per conversation. Firestore has no per-write
// expiry, so expires_at is checked on read; a TTL policy on that field lets
// Firestore delete stale documents in the background.
type Store struct {
	client *firestore.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a Firestore store.
// Uses the project passed (STYLIST_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string, ttl time.Duration) (*Store, error) {
	if projectID == "" {
		return nil, errors.New("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "creating firestore client")
	}

	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	return &Store{client: client, ttl: ttl, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection("conversations")
}

func (s *Store) conversationDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type turnDoc struct {
	Role    string `firestore:"role"`
	Content string `firestore:"content"`
}

type conversationDoc struct {
	Turns     []turnDoc `firestore:"turns"`
	UpdatedAt time.Time `firestore:"updated_at"`
	ExpiresAt time.Time `firestore:"expires_at"`
}

func toDoc(transcript domain.Transcript, now time.Time, ttl time.Duration) conversationDoc {
	turns := make([]turnDoc, 0, len(transcript))
	for _, t := range transcript {
		turns = append(turns, turnDoc{Role: string(t.Role), Content: t.Content})
	}
	return conversationDoc{
		Turns:     turns,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func fromDoc(doc conversationDoc, now time.Time) (domain.Transcript, bool) {
	if !now.Before(doc.ExpiresAt) {
		return nil, false
	}
	out := make(domain.Transcript, 0, len(doc.Turns))
	for _, t := range doc.Turns {
		out = append(out, domain.Turn{Role: domain.Role(t.Role), Content: t.Content})
	}
	return out, true
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) Create(ctx context.Context, transcript domain.Transcript) (domain.SessionID, error) {
	id := domain.SessionID(uuid.NewString())

	_, err := s.conversationDoc(id).Create(ctx, toDoc(transcript, s.now(), s.ttl))
	if err != nil {
		return "", errors.Wrap(err, "firestore Create")
	}
	return id, nil
}

func (s *Store) Load(ctx context.Context, id domain.SessionID) (domain.Transcript, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	snap, err := s.conversationDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "firestore Load")
	}

	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "firestore Load decode")
	}

	transcript, ok := fromDoc(doc, s.now())
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return transcript, nil
}

func (s *Store) Save(ctx context.Context, id domain.SessionID, transcript domain.Transcript) error {
	if id == "" {
		return domain.ErrSessionNotFound
	}

	_, err := s.conversationDoc(id).Set(ctx, toDoc(transcript, s.now(), s.ttl))
	if err != nil {
		return errors.Wrap(err, "firestore Save")
	}
	return nil
}
