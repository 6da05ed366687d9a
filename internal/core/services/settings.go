package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
	"github.com/custodia-labs/docdash/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyIndexDimensions  = "index.dimensions"
	keyIndexPaths       = "index.paths"
	keyIndexWatch       = "index.watch"
	keyVectorWeight     = "ranking.vector_weight"
	keyLexicalWeight    = "ranking.lexical_weight"
	keySnippetWords     = "snippet.window_words"
	keySearchLimit      = "search.limit"
	keySearchMinScore   = "search.min_score"
	keySessionDebounce  = "session.debounce_ms"
	keySessionHistorySz = "session.history_size"
)

// Environment variables that override the config file.
const (
	EnvDimensions    = "DOCDASH_DIMENSIONS"
	EnvVectorWeight  = "DOCDASH_VECTOR_WEIGHT"
	EnvLexicalWeight = "DOCDASH_LEXICAL_WEIGHT"
	EnvSnippetWords  = "DOCDASH_SNIPPET_WORDS"
	EnvDebounceMS    = "DOCDASH_DEBOUNCE_MS"
	EnvHistorySize   = "DOCDASH_HISTORY_SIZE"
)

// SettingsService manages application settings.
// Values come from the config store, then environment overrides, then defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Index: domain.IndexSettings{
			Dimensions: s.getInt(keyIndexDimensions, EnvDimensions, defaults.Index.Dimensions),
			Paths:      s.configStore.GetStringSlice(keyIndexPaths),
			Watch:      s.getBool(keyIndexWatch, defaults.Index.Watch),
		},
		Ranking: domain.RankingWeights{
			Vector:  s.getFloat(keyVectorWeight, EnvVectorWeight, defaults.Ranking.Vector),
			Lexical: s.getFloat(keyLexicalWeight, EnvLexicalWeight, defaults.Ranking.Lexical),
		},
		Snippet: domain.SnippetSettings{
			WindowWords: s.getInt(keySnippetWords, EnvSnippetWords, defaults.Snippet.WindowWords),
		},
		Search: domain.SearchSettings{
			Limit:    s.getInt(keySearchLimit, "", defaults.Search.Limit),
			MinScore: s.getFloat(keySearchMinScore, "", defaults.Search.MinScore),
		},
		Session: domain.SessionSettings{
			Debounce: time.Duration(s.getInt(keySessionDebounce, EnvDebounceMS,
				int(defaults.Session.Debounce/time.Millisecond))) * time.Millisecond,
			HistorySize: s.getInt(keySessionHistorySz, EnvHistorySize, defaults.Session.HistorySize),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings from %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyIndexDimensions, settings.Index.Dimensions},
		{keyIndexPaths, settings.Index.Paths},
		{keyIndexWatch, settings.Index.Watch},
		{keyVectorWeight, settings.Ranking.Vector},
		{keyLexicalWeight, settings.Ranking.Lexical},
		{keySnippetWords, settings.Snippet.WindowWords},
		{keySearchLimit, settings.Search.Limit},
		{keySearchMinScore, settings.Search.MinScore},
		{keySessionDebounce, int(settings.Session.Debounce / time.Millisecond)},
		{keySessionHistorySz, settings.Session.HistorySize},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with environment overrides and defaults.

func (s *SettingsService) env(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	val := strings.TrimSpace(s.getenv(name))
	return val, val != ""
}

func (s *SettingsService) getInt(key, envName string, defaultVal int) int {
	if raw, ok := s.env(envName); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
		logger.Warn("Ignoring %s=%q: not an integer", envName, raw)
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key, envName string, defaultVal float64) float64 {
	if raw, ok := s.env(envName); ok {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		logger.Warn("Ignoring %s=%q: not a number", envName, raw)
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
