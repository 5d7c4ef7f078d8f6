package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/model"
	"github.com/bacstack/msv-go/pkg/priority"
)

// Object option keys.
const (
	KeyName              = "name"
	KeyDescription       = "description"
	KeyValue             = "value"
	KeyState             = "state"
	KeyAlarmState        = "alarmstate"
	KeyTimeDelay         = "time_delay"
	KeyNotificationClass = "notification_class"
	KeyNotifyType        = "notify_type"
)

// Populate initializes every record of store from cfg.
//
// The default section supplies the state texts shared by all objects, the
// subset of those texts that are alarm values, and a description prefix.
// Section "<index>" configures one object. An object without a configured
// name is named "MV<index>_not_configured".
func Populate(store *model.Store, cfg *Store, logger *slog.Logger) error {
	states, _ := cfg.GetList(SectionDefault, KeyState)
	if len(states) > model.MaxStates {
		return fmt.Errorf("default: %d states, at most %d allowed", len(states), model.MaxStates)
	}
	for j := range states {
		if states[j] == "" {
			states[j] = "STATUS: " + strconv.Itoa(j)
		}
		states[j] = truncate(states[j], model.MaxStateTextLength)
	}
	alarmStates, _ := cfg.GetList(SectionDefault, KeyAlarmState)
	var alarmValues []uint32
	for j, text := range states {
		if slices.Contains(alarmStates, text) {
			alarmValues = append(alarmValues, uint32(j+1))
		}
	}
	defaultDescription, hasDefaultDescription := cfg.GetOption(SectionDefault, KeyDescription)

	for i := 0; i < store.Count(); i++ {
		r := store.Record(model.Index(i))
		section := strconv.Itoa(i)

		if len(states) > 0 {
			if err := r.SetStates(states); err != nil {
				return err
			}
		}
		r.AlarmValues = slices.Clone(alarmValues)

		if hasDefaultDescription {
			r.Description = truncate(fmt.Sprintf("%s %d", defaultDescription, i), model.MaxDescriptionLength)
		} else {
			r.Description = fmt.Sprintf("MV%d no section configured", i)
		}

		name, ok := cfg.GetOption(section, KeyName)
		if !ok {
			r.Name = fmt.Sprintf("MV%d_not_configured", i)
			continue
		}
		r.Name = truncate(name, model.MaxNameLength)
		if d, ok := cfg.GetOption(section, KeyDescription); ok {
			r.Description = truncate(d, model.MaxDescriptionLength)
		}

		value := cfg.GetInt(section, KeyValue, 1)
		if value < 0 || priority.SetPresentValue(r, uint32(value), priority.MaxPriority) != nil {
			logger.Warn("ignoring configured value", "section", section, "value", value, "states", r.NumberOfStates)
		}

		populateReporting(r, cfg, section, logger)
		logger.Debug("object configured", "section", section, "name", r.Name)
	}
	return nil
}

func populateReporting(r *model.Record, cfg *Store, section string, logger *slog.Logger) {
	if d := cfg.GetInt(section, KeyTimeDelay, -1); d >= 0 {
		r.TimeDelay = uint32(d)
		r.RemainingTimeDelay = uint32(d)
	}
	if c := cfg.GetInt(section, KeyNotificationClass, -1); c >= 0 {
		r.NotificationClass = uint32(c)
	}
	if t, ok := cfg.GetOption(section, KeyNotifyType); ok {
		switch strings.ToLower(t) {
		case "alarm":
			r.NotifyType = bacnet.NotifyAlarm
		case "event":
			r.NotifyType = bacnet.NotifyEvent
		default:
			logger.Warn("ignoring notify type", "section", section, "notify_type", t)
		}
	}
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
