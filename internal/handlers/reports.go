package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/PrakshaliShah/cta-silent-tracker/internal/evidence"
)

// maxUploadBytes caps the in-memory part of a multipart submission.
const maxUploadBytes = 10 << 20

// ReportHandler handles evidence photo submissions.
type ReportHandler struct {
	store evidence.Store
	index evidence.Index // nil when the report index is disabled
}

// NewReportHandler creates a new handler with the given storage backend and
// optional metadata index.
func NewReportHandler(store evidence.Store, index evidence.Index) *ReportHandler {
	return &ReportHandler{store: store, index: index}
}

// SubmitReportResponse is the JSON response for POST /submit-report.
type SubmitReportResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	FileURL  string `json:"file_url"`
	Message  string `json:"message"`
}

// RecentReportsResponse is the JSON response for GET /reports/recent.
type RecentReportsResponse struct {
	Reports []evidence.Report `json:"reports"`
	Count   int               `json:"count"`
}

// SubmitReport handles POST /submit-report (multipart form: file, run_number, gps).
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid multipart form",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "file field is required",
		})
		return
	}
	defer file.Close()

	runNumber := r.FormValue("run_number")
	if runNumber == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "run_number field is required",
		})
		return
	}
	gps := r.FormValue("gps")

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	sub := evidence.Submission{
		Content:     file,
		Size:        header.Size,
		ContentType: contentType,
		RunNumber:   runNumber,
		GPS:         gps,
		TakenAt:     time.Now().UTC(),
	}

	receipt, err := h.store.Save(r.Context(), sub)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to store evidence photo",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	if h.index != nil {
		report := evidence.Report{
			ID:          uuid.New(),
			RunNumber:   runNumber,
			GPS:         gps,
			StorageKey:  receipt.Key,
			Reference:   receipt.Reference,
			ContentType: contentType,
			SizeBytes:   header.Size,
			SubmittedAt: sub.TakenAt,
		}
		// The photo is the safety artifact; a failed bookkeeping row must
		// not fail the submission.
		if err := h.index.Record(r.Context(), report); err != nil {
			log.Printf("failed to record report for run %s: %v", runNumber, err)
		}
	}

	writeJSON(w, http.StatusOK, SubmitReportResponse{
		Status:   "success",
		Filename: receipt.Key,
		FileURL:  receipt.Reference,
		Message:  "Report for run " + runNumber + " received.",
	})
}

// RecentReports handles GET /reports/recent?limit=
func (h *ReportHandler) RecentReports(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "Report index is disabled",
		})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	reports, err := h.index.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list reports",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}
	if reports == nil {
		reports = []evidence.Report{}
	}

	writeJSON(w, http.StatusOK, RecentReportsResponse{
		Reports: reports,
		Count:   len(reports),
	})
}
