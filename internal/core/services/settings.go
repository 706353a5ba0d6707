package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyHeaderFraction      = "layout.header_fraction"
	keyFooterFraction      = "layout.footer_fraction"
	keyBoilerplateMarkers  = "layout.boilerplate_markers"
	keyMinTextLength       = "layout.min_text_length"
	keyVerticalGapRatio    = "layout.vertical_gap_ratio"
	keyFontSizeTolerance   = "layout.font_size_tolerance"
	keyAlignmentTolerance  = "layout.alignment_tolerance"
	keySectionGapRatio     = "layout.section_gap_ratio"
	keySectionFontRatio    = "layout.section_font_ratio"
	keyTitleRegionFraction = "layout.title_region_fraction"
	keyTitleMatch          = "layout.title_match"
	keyValidateGeometry    = "layout.validate_geometry"
	keyWorkers             = "layout.workers"
	keyRecordsMaxChars     = "records.max_chars"
	keyRecordsOverlap      = "records.overlap"
	keyStorageDataDir      = "storage.data_dir"
)

// settingKeys lists every key in display order.
var settingKeys = []string{
	keyHeaderFraction,
	keyFooterFraction,
	keyBoilerplateMarkers,
	keyMinTextLength,
	keyVerticalGapRatio,
	keyFontSizeTolerance,
	keyAlignmentTolerance,
	keySectionGapRatio,
	keySectionFontRatio,
	keyTitleRegionFraction,
	keyTitleMatch,
	keyValidateGeometry,
	keyWorkers,
	keyRecordsMaxChars,
	keyRecordsOverlap,
	keyStorageDataDir,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Keys that are absent fall
// back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Layout: domain.LayoutSettings{
			HeaderFraction:      s.getFloat(keyHeaderFraction, d.Layout.HeaderFraction),
			FooterFraction:      s.getFloat(keyFooterFraction, d.Layout.FooterFraction),
			BoilerplateMarkers:  s.getStringSlice(keyBoilerplateMarkers, d.Layout.BoilerplateMarkers),
			MinTextLength:       s.getInt(keyMinTextLength, d.Layout.MinTextLength),
			VerticalGapRatio:    s.getFloat(keyVerticalGapRatio, d.Layout.VerticalGapRatio),
			FontSizeTolerance:   s.getFloat(keyFontSizeTolerance, d.Layout.FontSizeTolerance),
			AlignmentTolerance:  s.getFloat(keyAlignmentTolerance, d.Layout.AlignmentTolerance),
			SectionGapRatio:     s.getFloat(keySectionGapRatio, d.Layout.SectionGapRatio),
			SectionFontRatio:    s.getFloat(keySectionFontRatio, d.Layout.SectionFontRatio),
			TitleRegionFraction: s.getFloat(keyTitleRegionFraction, d.Layout.TitleRegionFraction),
			TitleMatch:          s.getTitleMatch(d.Layout.TitleMatch),
			ValidateGeometry:    s.getBool(keyValidateGeometry, d.Layout.ValidateGeometry),
			Workers:             s.getInt(keyWorkers, d.Layout.Workers),
		},
		Records: domain.RecordSettings{
			MaxChars: s.getInt(keyRecordsMaxChars, d.Records.MaxChars),
			Overlap:  s.getInt(keyRecordsOverlap, d.Records.Overlap),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	for _, key := range settingKeys {
		if err := s.configStore.Set(key, valueOf(settings, key)); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set updates a single setting from its string form. The value is parsed
// according to the key's type and the resulting settings must validate.
// List values are comma separated.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := apply(settings, key, value); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, valueOf(settings, key)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes every stored setting so defaults apply again.
func (s *SettingsService) Reset() error {
	for _, key := range settingKeys {
		if err := s.configStore.Delete(key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

// Keys returns the names of all settable keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// apply parses value into the field named by key.
func apply(settings *domain.AppSettings, key, value string) error {
	value = strings.TrimSpace(value)
	l := &settings.Layout

	floatField := map[string]*float64{
		keyHeaderFraction:      &l.HeaderFraction,
		keyFooterFraction:      &l.FooterFraction,
		keyVerticalGapRatio:    &l.VerticalGapRatio,
		keyFontSizeTolerance:   &l.FontSizeTolerance,
		keyAlignmentTolerance:  &l.AlignmentTolerance,
		keySectionGapRatio:     &l.SectionGapRatio,
		keySectionFontRatio:    &l.SectionFontRatio,
		keyTitleRegionFraction: &l.TitleRegionFraction,
	}
	intField := map[string]*int{
		keyMinTextLength:   &l.MinTextLength,
		keyWorkers:         &l.Workers,
		keyRecordsMaxChars: &settings.Records.MaxChars,
		keyRecordsOverlap:  &settings.Records.Overlap,
	}

	if f, ok := floatField[key]; ok {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
		}
		*f = v
		return nil
	}
	if i, ok := intField[key]; ok {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		*i = v
		return nil
	}

	switch key {
	case keyBoilerplateMarkers:
		markers, err := parseList(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		l.BoilerplateMarkers = markers
	case keyTitleMatch:
		l.TitleMatch = domain.TitleMatch(value)
	case keyValidateGeometry:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		l.ValidateGeometry = v
	case keyStorageDataDir:
		settings.Storage.DataDir = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

// valueOf returns the typed value stored for key.
func valueOf(settings *domain.AppSettings, key string) any {
	l := settings.Layout
	switch key {
	case keyHeaderFraction:
		return l.HeaderFraction
	case keyFooterFraction:
		return l.FooterFraction
	case keyBoilerplateMarkers:
		markers := l.BoilerplateMarkers
		if markers == nil {
			markers = []string{}
		}
		return markers
	case keyMinTextLength:
		return l.MinTextLength
	case keyVerticalGapRatio:
		return l.VerticalGapRatio
	case keyFontSizeTolerance:
		return l.FontSizeTolerance
	case keyAlignmentTolerance:
		return l.AlignmentTolerance
	case keySectionGapRatio:
		return l.SectionGapRatio
	case keySectionFontRatio:
		return l.SectionFontRatio
	case keyTitleRegionFraction:
		return l.TitleRegionFraction
	case keyTitleMatch:
		return l.TitleMatch.String()
	case keyValidateGeometry:
		return l.ValidateGeometry
	case keyWorkers:
		return l.Workers
	case keyRecordsMaxChars:
		return settings.Records.MaxChars
	case keyRecordsOverlap:
		return settings.Records.Overlap
	case keyStorageDataDir:
		return settings.Storage.DataDir
	default:
		return nil
	}
}

// parseList reads a JSON array of strings when value starts with "[",
// so markers may contain commas, and a comma separated list otherwise.
func parseList(value string) ([]string, error) {
	if !strings.HasPrefix(strings.TrimSpace(value), "[") {
		return splitList(value), nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON list: %w", err)
	}
	items := []string{}
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

func splitList(value string) []string {
	items := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// Helper methods for reading config with defaults. A key that exists
// always wins, so zero values can be configured explicitly.

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if v := s.configStore.GetStringSlice(key); v != nil {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getTitleMatch(defaultVal domain.TitleMatch) domain.TitleMatch {
	val := s.configStore.GetString(keyTitleMatch)
	if val == "" {
		return defaultVal
	}
	match := domain.TitleMatch(val)
	if !match.IsValid() {
		return defaultVal
	}
	return match
}
