// Package alarm implements intrinsic reporting for Multi-state Value objects.
//
// The Engine evaluates one object per Tick. An object sits in NORMAL or
// FAULT. From NORMAL it moves to FAULT when its present value equals one of
// its alarm values; from FAULT it returns to NORMAL when the present value
// matches none of them. Each direction must be enabled in event-enable, and
// the condition must hold for time-delay consecutive ticks before the
// transition commits. Every committed transition produces a Notification that
// is handed to a Router.
//
// Acknowledgments are tracked per transition kind. AcknowledgeAlarm marks a
// transition acknowledged and arms an ack notification, which the next Tick
// of that object emits instead of evaluating its condition.
//
// The query side (EventInformation, AlarmSummary) walks the store by index
// and reports active objects, in the shape used by GetEventInformation and
// GetAlarmSummary.
//
// The Engine holds no locks. Callers serialize access to the store.
package alarm
