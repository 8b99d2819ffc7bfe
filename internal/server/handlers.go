package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ukaji3/lumina-go/internal/webhook"
	"github.com/ukaji3/lumina-go/pkg/lumina"
	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/ukaji3/lumina-go/pkg/lumina/normalize"
	"go.uber.org/zap"
)

// XLSXContentType is the media type of spreadsheet downloads.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FallbackHeader is set to "true" when the flat document was served.
const FallbackHeader = "X-Lumina-Fallback"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// NormalizeRequest is the body of POST /api/normalize.
type NormalizeRequest struct {
	Text string `json:"text"`
}

// MessageResponse is a normalized assistant message.
type MessageResponse struct {
	SessionID string `json:"sessionId,omitempty"`
	MessageID string `json:"messageId"`
	HTML      string `json:"html"`
	models.NormalizedMessage
}

// SpreadsheetRequest is the body of POST /api/spreadsheet.
type SpreadsheetRequest struct {
	MessageID string                `json:"messageId"`
	ExcelData *models.ProductRecord `json:"excelData"`
	Filename  string                `json:"filename"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, webhook.ErrNotConfigured.Error())
		return
	}

	var req ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, r, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := s.chat.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("chat turn failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		if errors.Is(err, webhook.ErrNotConfigured) {
			s.writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.writeError(w, r, http.StatusBadGateway, "the assistant is unavailable, please try again")
		return
	}

	resp, err := s.message(reply)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to render reply")
		return
	}
	resp.SessionID = req.SessionID
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.message(req.Text)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to render reply")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSpreadsheet(w http.ResponseWriter, r *http.Request) {
	var req SpreadsheetRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.MessageID == "" {
		s.writeError(w, r, http.StatusBadRequest, "messageId is required")
		return
	}

	msg := models.NormalizedMessage{ExcelData: req.ExcelData, Filename: req.Filename}
	if msg.ExcelData != nil && msg.Filename == "" {
		msg.Filename = normalize.SuggestFilename(*msg.ExcelData)
	}

	dl, err := s.svc.Download(r.Context(), req.MessageID, msg)
	switch {
	case errors.Is(err, lumina.ErrBusy):
		s.writeError(w, r, http.StatusConflict, "a spreadsheet for this message is already being generated")
		return
	case errors.Is(err, lumina.ErrNoData):
		s.writeError(w, r, http.StatusUnprocessableEntity, "excelData is required")
		return
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, lumina.AdvisoryMessage)
		return
	}

	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	if dl.Fallback {
		w.Header().Set(FallbackHeader, "true")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(dl.Bytes); err != nil {
		s.logger.Warn("spreadsheet write interrupted",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
	}
}

// message normalizes text and renders its display HTML.
func (s *Server) message(text string) (*MessageResponse, error) {
	msg := s.svc.Normalize(text)
	html, err := s.html.Render(msg.Content)
	if err != nil {
		return nil, err
	}
	return &MessageResponse{
		MessageID:         s.newMessageID(),
		HTML:              html,
		NormalizedMessage: msg,
	}, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encoding failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg, RequestID: RequestID(r.Context())})
}
