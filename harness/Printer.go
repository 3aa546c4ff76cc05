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

package harness

import (
	"fmt"
	"io"
	"sync"
	"time"

	cbm "github.com/flanglet/cbm-go"
)

// EventPrinter a Listener printing driver events (verbose option of the
// run command). Level 1 prints finished and failed cases, level 2 adds the
// preparation of each case with the time spent compressing and verifying,
// level 3 prints every event.
type EventPrinter struct {
	writer   io.Writer
	level    uint
	lock     sync.Mutex
	prepared map[string]time.Time
}

// NewEventPrinter creates a new instance of EventPrinter
func NewEventPrinter(level uint, writer io.Writer) (*EventPrinter, error) {
	if writer == nil {
		return nil, fmt.Errorf("invalid null writer parameter")
	}

	this := &EventPrinter{}
	this.writer = writer
	this.level = level
	this.prepared = make(map[string]time.Time)
	return this, nil
}

// ProcessEvent receives an event and writes a line to the internal writer
func (this *EventPrinter) ProcessEvent(evt *cbm.Event) {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.level >= 3 {
		fmt.Fprintln(this.writer, evt)
		return
	}

	switch evt.Type() {
	case cbm.EVT_PREPARE_START:
		this.prepared[evt.Name()] = evt.Time()

	case cbm.EVT_ROUND_TRIP_OK:
		start, ok := this.prepared[evt.Name()]
		delete(this.prepared, evt.Name())

		if ok == true && this.level >= 2 {
			durationMS := evt.Time().Sub(start).Nanoseconds() / int64(time.Millisecond)
			fmt.Fprintf(this.writer, "%s: %d bytes verified [%d ms]\n", evt.Name(), evt.Size(), durationMS)
		}

	case cbm.EVT_FINISH:
		if this.level >= 1 {
			fmt.Fprintln(this.writer, evt.Message())
		}

	case cbm.EVT_CASE_FAILED:
		delete(this.prepared, evt.Name())

		if this.level >= 1 {
			fmt.Fprintf(this.writer, "%s: FAILED: %s\n", evt.Name(), evt.Message())
		}
	}
}
