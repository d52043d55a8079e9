package moderation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yourusername/wordguard/internal/audit"
	"github.com/yourusername/wordguard/internal/cache"
	"github.com/yourusername/wordguard/internal/detect"
	"github.com/yourusername/wordguard/internal/wsfeed"
	"go.uber.org/zap"
)

// detectRequest is the shared request shape for /v1/detect and
// /v1/sanitize. languages is accepted but ignored: the detector's
// configured language set is used for every request.
type detectRequest struct {
	Text      string   `json:"text"`
	Languages []string `json:"languages,omitempty"`
}

type detectResponse struct {
	HasProfanity bool          `json:"has_profanity"`
	Matches      []spanPayload `json:"matches"`
}

type spanPayload struct {
	Word         string `json:"word"`
	Start        int    `json:"start"`
	Length       int    `json:"length"`
	LanguageCode string `json:"language_code"`
}

type sanitizeResponse struct {
	Text string `json:"text"`
}

type languagesResponse struct {
	Active []string `json:"active"`
	Loaded []string `json:"loaded"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleDetect runs the pipeline against the request body and, on a
// match, broadcasts a hash-only DetectionEvent and appends a row to the
// audit sink (both best-effort; neither failure affects the response).
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())
	log := s.logger.WithRequestID(requestID)

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode detect request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	result, fromCache := s.detectCached(r.Context(), req.Text)
	elapsed := time.Since(start)

	s.recordDetection(req.Text, result, elapsed)

	log.Debug("detect request processed",
		zap.Bool("has_profanity", result.HasProfanity),
		zap.Int("match_count", len(result.Matches)),
		zap.Bool("cache_hit", fromCache),
		zap.Duration("duration", elapsed))

	writeJSON(w, http.StatusOK, detectResponse{
		HasProfanity: result.HasProfanity,
		Matches:      toSpanPayloads(result.Matches),
	})
}

// handleSanitize masks every detected span in the request body and
// returns the resulting text.
func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())
	log := s.logger.WithRequestID(requestID)

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode sanitize request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sanitized := s.detector.Sanitize(req.Text)
	writeJSON(w, http.StatusOK, sanitizeResponse{Text: sanitized})
}

// handleLanguages reports the detector's active and loaded language sets
// (loaded is a superset of active: a code can be loaded into the registry
// without being selected as a Detect candidate).
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{
		Active: s.detector.ActiveLanguages(),
		Loaded: s.detector.LoadedLanguages(),
	})
}

// handleWebSocket upgrades the connection and registers it with the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}

// detectCached consults the Redis cache (if enabled) before falling back
// to the detector, per SPEC_FULL.md §4.9: a cache hit or miss never
// changes what Detect would have returned, only how fast it's served.
func (s *Server) detectCached(ctx context.Context, text string) (detect.Result, bool) {
	if s.cache == nil {
		return s.detector.Detect(text), false
	}

	key := s.cache.Key(s.cacheFingerprint(), text)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return fromCachedResult(cached), true
	}

	result := s.detector.Detect(text)
	_ = s.cache.Set(ctx, key, toCachedResult(result))
	return result, false
}

// cacheFingerprint is a coarse stand-in for a full config hash: the
// language set and algorithm are the knobs most likely to change between
// deploys, so they alone key the cache namespace.
func (s *Server) cacheFingerprint() string {
	h := sha256.New()
	for _, code := range s.config.Languages.Enabled {
		h.Write([]byte(code))
		h.Write([]byte{0})
	}
	h.Write([]byte(s.config.Detection.Algorithm))
	return hex.EncodeToString(h.Sum(nil))
}

// recordDetection broadcasts a DetectionEvent and appends an audit row
// when the pipeline flagged something; it is a no-op otherwise.
func (s *Server) recordDetection(text string, result detect.Result, elapsed time.Duration) {
	if !result.HasProfanity {
		return
	}

	hash := sha256.Sum256([]byte(text))
	textHash := hex.EncodeToString(hash[:])
	langCode := ""
	if len(result.Matches) > 0 {
		langCode = result.Matches[0].LanguageCode
	}

	s.wsHub.BroadcastDetection(wsfeed.DetectionEvent{
		TextHash:     textHash,
		LanguageCode: langCode,
		MatchCount:   len(result.Matches),
		ProcessingMS: float64(elapsed.Microseconds()) / 1000.0,
	})

	if s.audit != nil {
		event := audit.DetectionEvent{
			TextHash:     textHash,
			LanguageCode: langCode,
			MatchCount:   int32(len(result.Matches)),
			Masked:       s.config.Masking.Enabled,
			OccurredAt:   time.Now(),
		}
		if err := s.audit.Append(event); err != nil {
			s.logger.Warn("failed to append audit event", zap.Error(err))
		}
	}
}

func toSpanPayloads(spans []detect.Span) []spanPayload {
	out := make([]spanPayload, 0, len(spans))
	for _, s := range spans {
		out = append(out, spanPayload{
			Word:         s.Word,
			Start:        s.Start,
			Length:       s.Length,
			LanguageCode: s.LanguageCode,
		})
	}
	return out
}

func toCachedResult(result detect.Result) cache.CachedResult {
	spans := make([]cache.CachedSpan, 0, len(result.Matches))
	for _, s := range result.Matches {
		spans = append(spans, cache.CachedSpan{
			Word:         s.Word,
			Start:        s.Start,
			Length:       s.Length,
			LanguageCode: s.LanguageCode,
		})
	}
	return cache.CachedResult{HasProfanity: result.HasProfanity, Matches: spans}
}

func fromCachedResult(c *cache.CachedResult) detect.Result {
	spans := make([]detect.Span, 0, len(c.Matches))
	for _, s := range c.Matches {
		spans = append(spans, detect.Span{
			Word:         s.Word,
			Start:        s.Start,
			Length:       s.Length,
			LanguageCode: s.LanguageCode,
		})
	}
	return detect.Result{HasProfanity: c.HasProfanity, Matches: spans}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
