package service

import (
	"context"
	"strconv"

	"vehiclerental-backend/internal/logger"
	"vehiclerental-backend/internal/repository"
)

type settingsService struct {
	settingRepo repository.SettingRepository
}

func NewSettingsService(settingRepo repository.SettingRepository) SettingsService {
	return &settingsService{settingRepo: settingRepo}
}

// GetInt64 reads a runtime setting. A missing row, a fetch error, or an
// unparseable value all degrade to def; configuration lookups must never fail
// a booking.
func (s *settingsService) GetInt64(ctx context.Context, key string, def int64) int64 {
	raw, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		logger.Debug("setting lookup failed, using default", "key", key, "default", def, "error", err)
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("setting value unparseable, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}
