package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cognitive-screen/backend/internal/audio"
	"cognitive-screen/backend/internal/features"
	"cognitive-screen/backend/internal/model"
	"cognitive-screen/backend/internal/report"
	"cognitive-screen/backend/internal/scoring"
	"cognitive-screen/backend/internal/store"
)

// DefaultMaxAudioBytes is the audio payload size ceiling.
const DefaultMaxAudioBytes = 10 << 20

// Config defines server dependencies.
type Config struct {
	DBPath         string
	ModelDir       string
	AllowedOrigins []string
	SilentDB       bool

	// SpeechWeight selects the cognitive/speech fusion preset; 0 keeps
	// the analysis default of 0.3.
	SpeechWeight float64

	// MaxAudioBytes caps the uploaded audio size; 0 keeps the default.
	MaxAudioBytes int64
}

// Server wires HTTP handlers with persistence and scoring.
type Server struct {
	db             *store.Database
	registry       *model.Registry
	cognitive      *scoring.CognitiveEstimator
	speech         *scoring.SpeechEstimator
	preset         scoring.WeightPreset
	maxAudioBytes  int64
	allowedOrigins []string
	notifier       *AssessmentNotifier
}

// NewServer constructs the API server: opens the store, loads the model
// registry once, and builds the estimators that share it read-only.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	registry, err := model.LoadRegistry(cfg.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("model registry: %w", err)
	}

	preset := scoring.AnalysisWeights
	if cfg.SpeechWeight != 0 {
		preset, err = scoring.NewWeightPreset(cfg.SpeechWeight)
		if err != nil {
			return nil, fmt.Errorf("fusion preset: %w", err)
		}
	}

	maxAudioBytes := cfg.MaxAudioBytes
	if maxAudioBytes <= 0 {
		maxAudioBytes = DefaultMaxAudioBytes
	}

	return &Server{
		db:             db,
		registry:       registry,
		cognitive:      scoring.NewCognitiveEstimator(registry.Cognitive, registry.CognitiveScaler),
		speech:         scoring.NewSpeechEstimator(registry.Speech, registry.SpeechScaler),
		preset:         preset,
		maxAudioBytes:  maxAudioBytes,
		allowedOrigins: cfg.AllowedOrigins,
		notifier:       NewAssessmentNotifier(),
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/test", s.handleTest)
	r.GET("/api/models", s.handleModels)

	api := r.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/assessments", s.handleListAssessments)
		api.GET("/assessments/stream", s.handleAssessmentStream)
		api.GET("/assessments/:id", s.handleGetAssessment)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cognitive-screen",
		"models":  s.registry.Info(),
	})
}

func (s *Server) handleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Analysis API is operational",
		"endpoints": gin.H{
			"analyze":     "/api/analyze - POST - Comprehensive assessment analysis",
			"assessments": "/api/assessments - GET - Assessment history",
			"healthz":     "/api/healthz - GET - API health check",
		},
		"supported_formats": gin.H{
			"audio":           []string{"WAV"},
			"cognitive_tests": []string{"word_score", "memory_score", "reaction_time"},
		},
	})
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.Info())
}

func (s *Server) handleAnalyze(c *gin.Context) {
	start := time.Now()

	raw, err := bindRawSample(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	sample, err := features.Normalize(raw)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	cognitiveEstimate := s.cognitive.Estimate(sample)

	var (
		speechEstimate *scoring.RiskEstimate
		speechRisk     *int
		speechAnalyzed bool
	)
	audioBytes, err := s.readAudioFile(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if audioBytes != nil {
		vector := extractVector(audioBytes)
		if vector.IsDefault() {
			// Extraction produced the sentinel vector; downgrade to
			// cognitive-only scoring rather than failing the request.
			logrus.WithField("audio_bytes", len(audioBytes)).Warn("speech analysis skipped, feature extraction yielded no signal")
		} else {
			estimate := s.speech.Estimate(vector)
			speechEstimate = &estimate
			speechRisk = &estimate.Score
			speechAnalyzed = true
		}
	}

	fused, err := scoring.Fuse(&cognitiveEstimate, speechEstimate, nil, s.preset)
	if err != nil {
		logrus.WithError(err).Error("risk fusion failed")
		s.renderError(c, http.StatusInternalServerError, errors.New("analysis failed"))
		return
	}

	category := scoring.Categorize(fused.Score)
	recommendations := scoring.Recommendations(category, fused.Score, cognitiveEstimate.Score, speechAnalyzed)
	insights := scoring.BuildInsights(fused.Score, cognitiveEstimate.Score, speechRisk)

	response := AnalyzeResponse{
		RiskScore:       fused.Score,
		RiskCategory:    string(category),
		CognitiveRisk:   cognitiveEstimate.Score,
		SpeechRisk:      speechRisk,
		SpeechAnalyzed:  speechAnalyzed,
		ConfidenceScore: fused.Confidence,
		Recommendations: recommendations,
		Insights:        insights,
	}

	logrus.WithFields(logrus.Fields{
		"overall_risk":    fused.Score,
		"risk_category":   category,
		"cognitive_risk":  cognitiveEstimate.Score,
		"speech_analyzed": speechAnalyzed,
		"confidence":      fused.Confidence,
		"duration":        time.Since(start),
	}).Info("assessment completed")

	// Export runs outside the request's critical path: best-effort, never
	// blocks or fails the response.
	go s.persistAssessment(response, strings.TrimSpace(c.PostForm("patient_id")), time.Since(start).Milliseconds())

	c.JSON(http.StatusOK, response)
}

func (s *Server) persistAssessment(response AnalyzeResponse, patientID string, elapsedMs int64) {
	assessment := &store.Assessment{
		PatientID:        patientID,
		OverallRisk:      response.RiskScore,
		RiskCategory:     response.RiskCategory,
		CognitiveRisk:    response.CognitiveRisk,
		SpeechRisk:       response.SpeechRisk,
		SpeechAnalyzed:   response.SpeechAnalyzed,
		Confidence:       response.ConfidenceScore,
		ProcessingTimeMs: elapsedMs,
	}
	assessment.SetRecommendations(response.Recommendations)
	assessment.SetInsights(response.Insights)
	assessment.ReportText = report.Format(report.Data{
		PatientID:       patientID,
		GeneratedAt:     time.Now(),
		OverallRisk:     response.RiskScore,
		Category:        scoring.Category(response.RiskCategory),
		CognitiveRisk:   response.CognitiveRisk,
		SpeechRisk:      response.SpeechRisk,
		SpeechAnalyzed:  response.SpeechAnalyzed,
		Confidence:      response.ConfidenceScore,
		Recommendations: response.Recommendations,
		Insights:        response.Insights,
	})

	if err := s.db.SaveAssessment(assessment); err != nil {
		logrus.WithError(err).Warn("persist assessment report")
		return
	}

	dto := FromModel(*assessment)
	s.notifier.Broadcast(AssessmentEvent{Type: "assessment", Assessment: &dto})
}

// extractVector guards the feature extractor. A panic inside it downgrades
// the request to cognitive-only scoring instead of failing it.
func extractVector(data []byte) (vec features.AcousticVector) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("audio feature extraction panicked")
			vec = features.DefaultVector()
		}
	}()
	return audio.Extract(data)
}

// readAudioFile returns the uploaded audio bytes, nil when no file was
// attached, or a validation error when the payload exceeds the ceiling.
func (s *Server) readAudioFile(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile("audio_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		// An unreadable upload downgrades to cognitive-only scoring.
		logrus.WithError(err).Warn("audio upload unreadable, continuing without speech analysis")
		return nil, nil
	}
	if header.Size > s.maxAudioBytes {
		return nil, fmt.Errorf("audio file too large (max %dMB)", s.maxAudioBytes>>20)
	}

	file, err := header.Open()
	if err != nil {
		logrus.WithError(err).Warn("audio upload open failed, continuing without speech analysis")
		return nil, nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxAudioBytes+1))
	if err != nil {
		logrus.WithError(err).Warn("audio upload read failed, continuing without speech analysis")
		return nil, nil
	}
	if int64(len(data)) > s.maxAudioBytes {
		return nil, fmt.Errorf("audio file too large (max %dMB)", s.maxAudioBytes>>20)
	}
	return data, nil
}

func (s *Server) handleListAssessments(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 25
	}

	rows, total, err := s.db.ListAssessments(page*pageSize, pageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]AssessmentDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	c.JSON(http.StatusOK, AssessmentsResponse{Items: dtos, Total: total})
}

func (s *Server) handleGetAssessment(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	assessment, err := s.db.GetAssessment(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("assessment %d not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, FromModel(*assessment))
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleAssessmentStream(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := s.notifier.Register(conn)
	defer s.notifier.Unregister(client)

	// Hold the connection open; clients only listen.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// bindRawSample reads the cognitive form fields under every accepted
// alias. Absent fields stay nil so the adapter can apply first-non-null
// precedence.
func bindRawSample(c *gin.Context) (features.RawSample, error) {
	raw := features.RawSample{MemoryScale: strings.TrimSpace(c.PostForm("memory_scale"))}

	fields := []struct {
		key    string
		target **float64
	}{
		{"word_score", &raw.WordScore},
		{"wordScore", &raw.WordScoreAlt},
		{"word_test_score", &raw.WordTestScore},
		{"memory_score", &raw.MemoryScore},
		{"memoryScore", &raw.MemoryScoreAlt},
		{"memory_test_score", &raw.MemoryTestScore},
		{"reaction_time", &raw.ReactionTime},
		{"reaction_time_ms", &raw.ReactionTimeMs},
		{"reactionTime", &raw.ReactionTimeAlt},
	}
	for _, field := range fields {
		value, ok := c.GetPostForm(field.key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return features.RawSample{}, fmt.Errorf("%s must be numeric", field.key)
		}
		*field.target = &parsed
	}
	return raw, nil
}

func parseUintParam(value string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return uint(parsed), nil
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
