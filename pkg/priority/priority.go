// Package priority resolves the commandable present value of a Multi-state
// Value object.
//
// The priority array holds 16 command slots. Slot 1 has the highest
// priority. The present value is the value in the highest-priority slot that
// is set; when every slot is NULL the relinquish default applies.
//
// Priority 6 (minimum on/off) carries no special reservation here.
package priority

import (
	"errors"
	"fmt"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/model"
)

// Resolver errors.
var (
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidPriority = errors.New("invalid priority")
)

// Lowest and highest command priority numbers.
const (
	MinPriority = 1
	MaxPriority = bacnet.MaxPriority
)

// PresentValue returns the effective state of r: the first non-NULL slot in
// ascending priority order, or the relinquish default.
func PresentValue(r *model.Record) uint32 {
	for _, v := range r.PriorityArray {
		if v != model.StateNull {
			return uint32(v)
		}
	}
	return r.RelinquishDefault
}

// ActivePriority returns the priority number currently in control. The
// second result is false when the relinquish default applies.
func ActivePriority(r *model.Record) (uint8, bool) {
	for i, v := range r.PriorityArray {
		if v != model.StateNull {
			return uint8(i + 1), true
		}
	}
	return 0, false
}

// SetPresentValue commands value at priority and records it as the last
// commanded value. The record is not changed on error.
func SetPresentValue(r *model.Record, value uint32, priority uint8) error {
	if !validPriority(priority) {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}
	if !r.ValidState(value) {
		return fmt.Errorf("%w: %d not in 1..%d", ErrValueOutOfRange, value, r.NumberOfStates)
	}
	r.PresentValue = uint8(value)
	r.PriorityArray[priority-1] = uint8(value)
	return nil
}

// Relinquish clears the command at priority.
func Relinquish(r *model.Record, priority uint8) error {
	if !validPriority(priority) {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}
	r.PriorityArray[priority-1] = model.StateNull
	return nil
}

// Slot returns the value at priority and whether the slot is set.
func Slot(r *model.Record, priority uint8) (uint8, bool) {
	if !validPriority(priority) {
		return 0, false
	}
	v := r.PriorityArray[priority-1]
	return v, v != model.StateNull
}

func validPriority(p uint8) bool {
	return p >= MinPriority && p <= MaxPriority
}
