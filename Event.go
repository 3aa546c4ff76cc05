/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cbm

import (
	"fmt"
	"time"
)

const (
	EVT_CONFIGURED    = 0 // Driver configured
	EVT_PREPARE_START = 1 // Test case preparation starts
	EVT_PREPARE_END   = 2 // Input loaded and compressed
	EVT_ROUND_TRIP_OK = 3 // Round trip verification succeeded
	EVT_WARMUP        = 4 // Warmup run ends
	EVT_FINISH        = 5 // Results computed
	EVT_CASE_FAILED   = 6 // Test case aborted
)

// Event a benchmark lifecycle event
type Event struct {
	eventType int
	name      string
	size      int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message
func NewEventFromString(evtType int, name, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, name: name, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance with size info
func NewEvent(evtType int, name string, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, name: name, size: size, eventTime: evtTime}
}

// Type returns the type info
func (this *Event) Type() int {
	return this.eventType
}

// Name returns the test case name (empty for driver level events)
func (this *Event) Name() string {
	return this.name
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info
func (this *Event) Size() int64 {
	return this.size
}

// Message returns the wrapped message, if any
func (this *Event) Message() string {
	return this.msg
}

// TypeName returns the name of the event type
func (this *Event) TypeName() string {
	switch this.eventType {
	case EVT_CONFIGURED:
		return "CONFIGURED"

	case EVT_PREPARE_START:
		return "PREPARE_START"

	case EVT_PREPARE_END:
		return "PREPARE_END"

	case EVT_ROUND_TRIP_OK:
		return "ROUND_TRIP_OK"

	case EVT_WARMUP:
		return "WARMUP"

	case EVT_FINISH:
		return "FINISH"

	case EVT_CASE_FAILED:
		return "CASE_FAILED"

	default:
		return "UNKNOWN"
	}
}

// String returns a string representation of this event.
func (this *Event) String() string {
	msg := ""

	if len(this.msg) > 0 {
		msg = fmt.Sprintf(", \"msg\":%q", this.msg)
	}

	return fmt.Sprintf("{ \"type\":\"%s\", \"name\":%q, \"size\":%d, \"time\":%d%s }",
		this.TypeName(), this.name, this.size, this.eventTime.UnixNano()/1000000, msg)
}

// Listener is an interface implemented by event processors
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}
