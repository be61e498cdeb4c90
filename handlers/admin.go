// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/danielhkuo/secret-post/cliparse"
	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/middleware"
	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/pairing"
)

// DefaultBucket groups the registration timeline when no bucket is requested
const DefaultBucket = time.Minute

// AdminHandler serves organizer operations. Routes are wrapped with
// middleware.RequireAdminKey by the router.
type AdminHandler struct {
	svc *coordinator.Service
	cfg cliparse.Config
}

func NewAdminHandler(svc *coordinator.Service, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{svc: svc, cfg: cfg}
}

// Distribute handles POST /distribution
func (h *AdminHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	var req models.DistributeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.svc.Distribute(r.Context(), req.K)
	if err != nil {
		writeError(w, err, "Failed to create distribution")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.DistributeResponse{
		RunID:       run.ID.String(),
		CreatedAt:   run.CreatedAt,
		K:           run.K,
		Valid:       run.Valid,
		Stats:       run.Stats,
		Attempts:    run.Attempts,
		Assignments: pairing.Edges(run.Distribution),
	})
}

// Distribution handles GET /distribution
func (h *AdminHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Overview(r.Context())
	if err != nil {
		writeError(w, err, "Failed to load distribution")
		return
	}

	statuses := make(map[pairing.Edge]models.DeliveryStatus, len(o.Assignments))
	for _, a := range o.Assignments {
		statuses[pairing.Edge{Sender: a.Sender, Recipient: a.Recipient}] = a.Status
	}

	entries := make([]models.DistributionEntry, 0, len(o.Distribution))
	for _, sender := range pairing.Senders(o.Distribution) {
		entry := models.DistributionEntry{
			Sender:     models.Contact{UserID: sender, Name: o.Name(sender)},
			Recipients: make([]models.Contact, 0, len(o.Distribution[sender])),
		}
		for _, recipient := range o.Distribution[sender] {
			entry.Recipients = append(entry.Recipients, models.Contact{
				UserID: recipient,
				Name:   o.Name(recipient),
				Status: statuses[pairing.Edge{Sender: sender, Recipient: recipient}],
			})
		}
		entries = append(entries, entry)
	}

	middleware.JSONResponse(w, http.StatusOK, models.DistributionResponse{
		Valid:   o.Valid,
		Stats:   o.Stats,
		Entries: entries,
	})
}

// SendAssignments handles POST /notifications/assignments
func (h *AdminHandler) SendAssignments(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.SendAssignments(r.Context(), testMode(r))
	h.writeBroadcast(w, report, err)
}

// SendReminder handles POST /notifications/reminder
func (h *AdminHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.SendReminder(r.Context(), testMode(r))
	h.writeBroadcast(w, report, err)
}

func (h *AdminHandler) writeBroadcast(w http.ResponseWriter, report notify.Report, err error) {
	if err != nil {
		writeError(w, err, "Failed to send notifications")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.BroadcastResponse{
		Total:   report.Total,
		Sent:    report.Sent,
		Failed:  report.Failed,
		Skipped: report.Skipped,
	})
}

// Timeline handles GET /stats/registrations
func (h *AdminHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	bucket := DefaultBucket
	if raw := r.URL.Query().Get("bucket"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid bucket duration")
			return
		}
		bucket = d
	}

	points, err := h.svc.Timeline(r.Context(), bucket)
	if err != nil {
		writeError(w, err, "Failed to load registration timeline")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TimelineResponse{
		Bucket: bucket.String(),
		Points: points,
	})
}

// testMode is on for ?test=1 or ?test=true
func testMode(r *http.Request) bool {
	switch r.URL.Query().Get("test") {
	case "1", "true":
		return true
	}
	return false
}
