package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"cognitive-screen/backend/internal/api"
)

func main() {
	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.Fatalf("create data directory: %v", err)
	}

	cfg := api.Config{
		DBPath:   filepath.Join(dataDir, "cognitive-screen.db"),
		ModelDir: filepath.Join(baseDir, "models"),
	}

	if override := strings.TrimSpace(os.Getenv("SCREEN_DB_PATH")); override != "" {
		cfg.DBPath = override
	}
	if override := strings.TrimSpace(os.Getenv("MODEL_DIR")); override != "" {
		cfg.ModelDir = override
	}
	if weight := strings.TrimSpace(os.Getenv("SPEECH_WEIGHT")); weight != "" {
		if v, err := strconv.ParseFloat(weight, 64); err == nil {
			cfg.SpeechWeight = v
		}
	}
	if maxMB := strings.TrimSpace(os.Getenv("MAX_AUDIO_MB")); maxMB != "" {
		if v, err := strconv.ParseInt(maxMB, 10, 64); err == nil && v > 0 {
			cfg.MaxAudioBytes = v << 20
		}
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	logrus.Infof("starting cognitive-screen backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
