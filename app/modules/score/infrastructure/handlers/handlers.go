package scorehandlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	scoreservice "github.com/satrf/scorekeeper/app/modules/score/application"
	"github.com/satrf/scorekeeper/app/modules/score/application/parsers"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
)

const (
	// UploadField is the multipart field carrying the spreadsheet.
	UploadField = "file"

	templateFilename    = "satrf-score-template.xlsx"
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultMaxUploadLen = 10 << 20
)

// ScoreHandlers handles the admin score HTTP endpoints.
type ScoreHandlers struct {
	service        scoreservice.Service
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewScoreHandlers creates a new ScoreHandlers.
func NewScoreHandlers(service scoreservice.Service, logger *slog.Logger, maxUploadBytes int64) Handlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadLen
	}
	return &ScoreHandlers{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleImport stores a JSON batch of scores.
func (h *ScoreHandlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req scoredomain.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.ImportScores(r.Context(), req.Scores)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeJSON(w, http.StatusBadRequest, result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, result.Success.Response())
}

// HandleUpload reads a spreadsheet and returns its records for review.
func (h *ScoreHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	result, err := h.service.PreviewUpload(r.Context(), scoreservice.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeJSON(w, http.StatusBadRequest, result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, result.Success)
}

// HandleTemplate serves the blank import spreadsheet.
func (h *ScoreHandlers) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := parsers.WriteTemplate(&buf); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+templateFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// HandleList returns a page of stored scores.
func (h *ScoreHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, ok := queryInt(q.Get("page"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid page")
		return
	}
	limit, ok := queryInt(q.Get("limit"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	out, err := h.service.ListScores(r.Context(), scoreservice.ListQuery{
		Status:    q.Get("status"),
		EventName: q.Get("eventName"),
		Class:     q.Get("class"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet returns one stored score.
func (h *ScoreHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.GetScore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// HandleUpdate replaces a stored score.
func (h *ScoreHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload scoredomain.ScorePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateScore(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeJSON(w, http.StatusUnprocessableEntity, result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, result.Success)
}

// HandleApprove marks a score approved.
func (h *ScoreHandlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.ApproveScore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// HandleReject marks a score rejected.
func (h *ScoreHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.RejectScore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// HandleDelete removes a score.
func (h *ScoreHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteScore(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *ScoreHandlers) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scoreservice.ErrScoreNotFound):
		writeError(w, http.StatusNotFound, "Score not found")
	case errors.Is(err, scoreservice.ErrInvalidScoreID):
		writeError(w, http.StatusBadRequest, "Invalid score id")
	case errors.Is(err, scoreservice.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "Invalid status")
	default:
		h.logger.ErrorContext(r.Context(), "Score request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// queryInt parses an optional integer query value. Empty means zero.
func queryInt(v string) (int, bool) {
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
