package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PabloGalante/stylist-agent/internal/app/conversation"
	"github.com/PabloGalante/stylist-agent/internal/domain"
	"github.com/PabloGalante/stylist-agent/internal/observability"
)

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.Handle("/healthz", withMetrics("healthz", http.HandlerFunc(s.handleHealthz)))
	mux.Handle("/metrics", promhttp.HandlerFor(observability.Registry, promhttp.HandlerOpts{}))

	// /init → seed a conversation (GET)
	mux.Handle("/init", withMetrics("init", http.HandlerFunc(s.handleInit)))

	// /talk/{conversationID} → one chat turn (POST)
	mux.Handle("/talk/", withMetrics("talk", http.HandlerFunc(s.handleTalk)))

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type initResponse struct {
	ConversationID string `json:"conversation_id"`
}

type turnRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type talkRequest struct {
	Conversation []turnRequest `json:"conversation"`
}

type textReplyResponse struct {
	BotReplyType string `json:"bot_reply_type"`
	BotReply     string `json:"bot_reply"`
}

type searchReplyResponse struct {
	BotReplyType  string                `json:"bot_reply_type"`
	SearchResults []domain.SearchResult `json:"search_results"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	token := r.Header.Get("Authorization")
	if token == "" {
		writeError(w, domain.ErrMissingAuth)
		return
	}

	out, err := s.svc.StartSession(r.Context(), conversation.StartSessionInput{BearerToken: token})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, initResponse{ConversationID: string(out.SessionID)})
}

func (s *Server) handleTalk(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/talk/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No conversation ID found"})
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req talkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(domain.ErrInvalidInput, "invalid JSON body"))
		return
	}

	turns := make([]domain.Turn, 0, len(req.Conversation))
	for _, t := range req.Conversation {
		turns = append(turns, domain.Turn{Role: domain.Role(t.Role), Content: t.Content})
	}

	reply, err := s.svc.Talk(r.Context(), conversation.TalkInput{
		SessionID: domain.SessionID(id),
		Turns:     turns,
	})
	if err != nil {
		observability.CountTalkOutcome("error")
		writeError(w, err)
		return
	}

	switch reply.Type {
	case domain.ReplyTypeSearchResults:
		results := reply.Results
		if results == nil {
			results = []domain.SearchResult{}
		}
		writeJSON(w, http.StatusOK, searchReplyResponse{
			BotReplyType:  string(domain.ReplyTypeSearchResults),
			SearchResults: results,
		})
	default:
		writeJSON(w, http.StatusOK, textReplyResponse{
			BotReplyType: string(domain.ReplyTypeText),
			BotReply:     reply.Text,
		})
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to a status code. The body is always
// {"error": message}.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingAuth), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream),
		errors.Is(err, domain.ErrModelInvocation),
		errors.Is(err, domain.ErrMalformedReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{
		"error": err.Error(),
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
