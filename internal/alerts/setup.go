package alerts

import (
	"log/slog"
	"strconv"

	"github.com/albapepper/mindsaathi/internal/config"
	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
)

// NewSadnessJobFromConfig builds the sadness job with a fresh cooldown table.
func NewSadnessJobFromConfig(cfg *config.Config, engine *mood.Engine, notifier *notifications.Notifier, logger *slog.Logger) *SadnessJob {
	return NewSadnessJob(SadnessConfig{
		Interval:     cfg.AutoAlertInterval,
		Threshold:    cfg.SadAlertThreshold,
		LookbackDays: cfg.SadAlertLookbackDays,
		Cooldown:     cfg.AlertCooldown,
	}, engine, notifier, NewCooldown(), logger)
}

// NewNightJobFromConfig builds the night job with a fresh dedup set.
func NewNightJobFromConfig(cfg *config.Config, logins mood.LoginStore, notifier *notifications.Notifier, logger *slog.Logger) *NightJob {
	return NewNightJob(NightConfig{
		Interval:     cfg.NightAlertInterval,
		Threshold:    cfg.NightAlertThreshold,
		Location:     cfg.Location(),
		StoreTimeout: cfg.StoreTimeout,
	}, logins, notifier, NewDayDedup(), logger)
}

// Schedule registers the enabled jobs on s and logs one startup line per
// job with its effective settings. Disabled jobs are not registered.
func Schedule(s *Scheduler, cfg *config.Config, sadness *SadnessJob, night *NightJob, logger *slog.Logger) error {
	if cfg.AutoAlertEnabled {
		if err := s.Add(sadness); err != nil {
			return err
		}
		lookback := "all"
		if cfg.SadAlertLookbackDays > 0 {
			lookback = strconv.Itoa(cfg.SadAlertLookbackDays)
		}
		logger.Info("Sadness alert job enabled",
			"interval", cfg.AutoAlertInterval,
			"threshold", cfg.SadAlertThreshold,
			"cooldown", cfg.AlertCooldown,
			"lookback_days", lookback)
	} else {
		logger.Info("Sadness alert job disabled (set AUTO_ALERT_ENABLED=true to enable)")
	}

	if cfg.NightAlertEnabled {
		if err := s.Add(night); err != nil {
			return err
		}
		logger.Info("Night login alert job enabled",
			"interval", cfg.NightAlertInterval,
			"threshold", cfg.NightAlertThreshold,
			"timezone", cfg.Timezone)
	} else {
		logger.Info("Night login alert job disabled (set NIGHT_ALERT_ENABLED=true to enable)")
	}
	return nil
}
