package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/analyze"
	"github.com/launchdir/directory-service/internal/fetcher"
	"github.com/launchdir/directory-service/internal/metrics"
	"github.com/launchdir/directory-service/internal/notify"
	"github.com/launchdir/directory-service/internal/scrape"
	"github.com/launchdir/directory-service/internal/store"
)

type scrapeRequest struct {
	WebsiteURL  string `json:"websiteUrl"`
	WebsiteName string `json:"websiteName"`
	UserID      string `json:"userId"`
}

type scrapeResponse struct {
	Content     scrape.PageContent     `json:"content"`
	GPTAnalysis analyze.AnalysisResult `json:"gptAnalysis"`
	Message     string                 `json:"message"`
}

func (s *Server) scrapeWebsite(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.WebsiteURL == "" {
		writeError(w, http.StatusBadRequest, "websiteUrl is required")
		return
	}

	start := time.Now()
	content, finalURL, rawHTML, err := s.scraper.Scrape(r.Context(), req.WebsiteURL)
	if err != nil {
		if fetcher.IsTimeout(err) {
			metrics.ObserveScrape("timeout", time.Since(start))
			writeError(w, http.StatusGatewayTimeout, fmt.Sprintf("fetch timed out: %v", err))
			return
		}
		metrics.ObserveScrape("error", time.Since(start))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("fetch failed: %v", err))
		return
	}
	metrics.ObserveScrape("ok", time.Since(start))

	analysis := s.analyzer.Analyze(r.Context(), content, req.WebsiteName)

	snapshotURI := s.archiveSnapshot(r, rawHTML)

	if s.store != nil {
		contentJSON, err := json.Marshal(content)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("encode content: %v", err))
			return
		}
		analysisJSON, err := json.Marshal(analysis)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("encode analysis: %v", err))
			return
		}
		rec := store.WebsiteContentRecord{
			WebsiteURL:  finalURL,
			WebsiteName: req.WebsiteName,
			UserID:      req.UserID,
			Content:     contentJSON,
			Analysis:    analysisJSON,
			SnapshotURI: snapshotURI,
			CreatedAt:   s.clock.Now(),
		}
		if _, err := s.store.SaveWebsiteContent(r.Context(), rec); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("persist content: %v", err))
			return
		}
	}

	writeJSON(w, http.StatusOK, scrapeResponse{
		Content:     content,
		GPTAnalysis: analysis,
		Message:     "Website scraped and analyzed successfully",
	})
}

// archiveSnapshot stores the raw markup when an archiver is configured.
// Snapshot failures never fail the scrape.
func (s *Server) archiveSnapshot(r *http.Request, rawHTML string) string {
	if s.archiver == nil || rawHTML == "" {
		return ""
	}
	key := fmt.Sprintf("%s.html", uuid.NewString())
	uri, err := s.archiver.Put(r.Context(), key, []byte(rawHTML))
	if err != nil {
		s.logger.Warn("snapshot archive failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		return ""
	}
	return uri
}

func (s *Server) syncAirtable(w http.ResponseWriter, r *http.Request) {
	if err := s.syncer.RunAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("sync failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Airtable sync completed",
	})
}

type statusRequest struct {
	SubmissionID string `json:"submissionId"`
	NewStatus    string `json:"newStatus"`
}

func (s *Server) updateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SubmissionID == "" || req.NewStatus == "" {
		writeError(w, http.StatusBadRequest, "submissionId and newStatus are required")
		return
	}

	sub, err := s.notifier.UpdateStatus(r.Context(), req.SubmissionID, req.NewStatus)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "submission not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("status update failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Status updated",
		"submission": sub,
	})
}

type welcomeRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (s *Server) sendWelcome(w http.ResponseWriter, r *http.Request) {
	var req welcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	email, name := req.Email, req.Name
	if email == "" && req.UserID != "" {
		user, err := s.store.GetUser(r.Context(), req.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("look up user: %v", err))
			return
		}
		email = user.Email
		if name == "" {
			name = user.Name
		}
	}
	if email == "" {
		writeError(w, http.StatusBadRequest, "email or userId is required")
		return
	}

	if err := s.notifier.Send(r.Context(), notify.TemplateWelcome, email, notify.TemplateData{Name: name}); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("send welcome email: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]string{"email": email},
	})
}

type submissionEmailRequest struct {
	SubmissionID string `json:"submissionId"`
	UserID       string `json:"userId"`
}

// submissionEmail builds a handler that resolves a submission's recipient and
// sends the given template. The payment-request, verification-started,
// completed and request-feedback routes differ only in the template.
func (s *Server) submissionEmail(templateName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submissionEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.SubmissionID == "" {
			writeError(w, http.StatusBadRequest, "submissionId is required")
			return
		}

		sub, err := s.store.GetSubmission(r.Context(), req.SubmissionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "submission not found")
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("look up submission: %v", err))
			return
		}
		s.sendSubmissionEmail(w, r, templateName, sub)
	}
}

type paymentConfirmedRequest struct {
	PaymentID string `json:"paymentId"`
}

func (s *Server) paymentConfirmed(w http.ResponseWriter, r *http.Request) {
	var req paymentConfirmedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "paymentId is required")
		return
	}

	payment, err := s.store.GetPayment(r.Context(), req.PaymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "payment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("look up payment: %v", err))
		return
	}

	sub, err := s.store.GetSubmission(r.Context(), payment.SubmissionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "submission not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("look up submission: %v", err))
		return
	}
	s.sendSubmissionEmail(w, r, notify.TemplatePaymentConfirmed, sub)
}

// sendSubmissionEmail resolves the recipient for sub, falling back to the
// owning user's address, then sends templateName.
func (s *Server) sendSubmissionEmail(w http.ResponseWriter, r *http.Request, templateName string, sub store.Submission) {
	email := sub.Email
	var name string
	if sub.UserID != "" {
		user, err := s.store.GetUser(r.Context(), sub.UserID)
		if err == nil {
			name = user.Name
			if email == "" {
				email = user.Email
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("look up user: %v", err))
			return
		}
	}
	if email == "" {
		writeError(w, http.StatusBadRequest, "submission has no email address")
		return
	}

	data := notify.TemplateData{
		Name:        name,
		WebsiteName: sub.WebsiteName,
		WebsiteURL:  sub.WebsiteURL,
	}
	if err := s.notifier.Send(r.Context(), templateName, email, data); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("send email: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]string{
			"submissionId": sub.ID,
			"email":        email,
			"template":     templateName,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
