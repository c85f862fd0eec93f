package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/starlearn/hub/internal/eventlog"
	"github.com/starlearn/hub/internal/general"
	"github.com/starlearn/hub/internal/recommend"
	"github.com/starlearn/hub/internal/student"
)

// WebhookPayload is what the external assessment provider delivers.
type WebhookPayload struct {
	StudentID string             `json:"student_id"`
	RawScore  float64            `json:"raw_score"`
	Level     string             `json:"level"`
	Domains   map[string]float64 `json:"domains"`
}

// VerifySignature checks an X-Hub-Signature header ("sha256=<hex>")
// against the raw body. Constant-time compare.
func VerifySignature(secret string, body []byte, header string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}

// POST /assessment/webhook — signed delivery from the external provider.
// The signature is the only authentication on this route; once verified,
// the payload is trusted unconditionally.
func AssessmentWebhookHandler(secret string, students *student.SQLStore, results *general.SQLStore, events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read body", 400)
			return
		}
		if !VerifySignature(secret, body, r.Header.Get("X-Hub-Signature")) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}

		var payload WebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if _, err := students.Get(r.Context(), payload.StudentID); err != nil {
			if errors.Is(err, student.ErrNotFound) {
				http.Error(w, "student not found", 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}

		domainsJSON, _ := json.Marshal(payload.Domains)
		res, err := results.Insert(r.Context(), general.Result{
			StudentID:      payload.StudentID,
			RawScore:       payload.RawScore,
			Level:          payload.Level,
			DomainsJSON:    string(domainsJSON),
			StarsEarned:    general.CompletionStars,
			Recommendation: recommend.Generate(payload.RawScore, payload.Level, payload.Domains),
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}

		if events != nil {
			if err := events.Append(r.Context(), eventlog.Event{
				Type:     eventlog.TypeAssessmentReceived,
				Key:      res.ID,
				DataJSON: string(body),
			}); err != nil {
				log.Printf("eventlog append failed for result %s: %v", res.ID, err)
			}
		}
		writeJSON(w, map[string]string{"status": "success", "message": "Assessment result saved"})
	}
}
