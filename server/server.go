package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/websocket"
	"github.com/mgrain/sopchat/internal/models"
	"github.com/mgrain/sopchat/pkg/assistant"
	"github.com/mgrain/sopchat/pkg/extractor"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // single-operator tool; not exposed publicly
	},
}

// Assistant is the slice of the orchestrator the server needs.
type Assistant interface {
	Upload(ctx context.Context, path string) (int, error)
	Ask(ctx context.Context, question string) (*models.Answer, error)
	Reset(ctx context.Context) error
	Phase(ctx context.Context) (assistant.Phase, error)
	History() []models.Message
}

// Message is the WebSocket frame in both directions.
type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

type answerMeta struct {
	Source    string `json:"source"`
	LatencyMS int64  `json:"latency_ms"`
}

type Server struct {
	bot Assistant
}

func New(bot Assistant) *Server {
	return &Server{bot: bot}
}

func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/reset", s.handleReset)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	log.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleUpload accepts one multipart runbook file and runs the bootstrap
// pipeline. The upload is spooled to a temp file because the extractors
// work with paths.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Max 20MB for safety
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		http.Error(w, "failed to create temp file", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		http.Error(w, "failed to save upload", http.StatusInternalServerError)
		return
	}

	count, err := s.bot.Upload(r.Context(), tmp.Name())
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrAlreadyIndexed):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, extractor.ErrExtraction):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"chunks_indexed": count,
		"filename":       header.Filename,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.bot.Reset(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	type metaJSON struct {
		Source    string `json:"source"`
		LatencyMS int64  `json:"latency_ms"`
	}
	type messageJSON struct {
		Role    string    `json:"role"`
		Content string    `json:"content"`
		Meta    *metaJSON `json:"metadata,omitempty"`
	}

	history := s.bot.History()
	out := make([]messageJSON, len(history))
	for i, msg := range history {
		out[i] = messageJSON{Role: string(msg.Role), Content: msg.Content}
		if msg.Meta != nil {
			out[i].Meta = &metaJSON{Source: msg.Meta.Source, LatencyMS: msg.Meta.LatencyMS}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendMessage(conn, Message{Type: "error", Content: "invalid message"})
			continue
		}

		// Questions within one connection are handled strictly in order;
		// there is one conversation per session, not per frame.
		s.handleFrame(r.Context(), conn, msg)
	}
}

func (s *Server) handleFrame(ctx context.Context, conn *websocket.Conn, msg Message) {
	switch msg.Type {
	case "question":
		answer, err := s.bot.Ask(ctx, msg.Content)
		if err != nil {
			s.sendMessage(conn, Message{Type: "error", Content: err.Error()})
			return
		}
		s.sendMessage(conn, Message{
			Type:    "answer",
			Content: answer.Text,
			Data:    answerMeta{Source: answer.SourceID, LatencyMS: answer.LatencyMS},
		})

	case "examples":
		s.sendMessage(conn, Message{Type: "examples", Data: assistant.ExampleQuestions()})

	case "phase":
		phase, err := s.bot.Phase(ctx)
		if err != nil {
			s.sendMessage(conn, Message{Type: "error", Content: err.Error()})
			return
		}
		s.sendMessage(conn, Message{Type: "phase", Content: phase.String()})

	default:
		s.sendMessage(conn, Message{Type: "error", Content: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func (s *Server) sendMessage(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
