package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
)

// Tracker records events
type Tracker interface {
	Track(event event)
	Close() error
}

type noopTracker struct{}

func (tracker *noopTracker) Track(event event) {}

func (tracker *noopTracker) Close() error { return nil }

type stdoutTracker struct {
	out io.Writer
}

func newStdoutTracker() *stdoutTracker {
	return &stdoutTracker{os.Stdout}
}

func (tracker *stdoutTracker) Track(event event) {
	fmt.Fprintf(
		tracker.out,
		"%s UTC TELEM %s: %s%v\n",
		event.time.In(time.UTC).Format("15:04:05"),
		event.command,
		event.eventType,
		event.data,
	)
}

func (tracker *stdoutTracker) Close() error { return nil }

const (
	metricEventsTotal = "admin_cli_events_total"

	labelEvent   = "event"
	labelCommand = "command"
)

// textfileTracker counts events in a prometheus registry
// and writes them in the node exporter textfile format on Close,
// adding to the totals written by previous runs
type textfileTracker struct {
	path     string
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

func newTextfileTracker(path string) *textfileTracker {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricEventsTotal,
			Help: "Number of admin-cli events by type and command.",
		},
		[]string{labelEvent, labelCommand},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(events)

	return &textfileTracker{path, registry, events}
}

func (tracker *textfileTracker) Track(event event) {
	tracker.events.WithLabelValues(string(event.eventType), event.command).Inc()
}

func (tracker *textfileTracker) Close() error {
	if err := os.MkdirAll(filepath.Dir(tracker.path), 0700); err != nil {
		return err
	}
	if err := tracker.restore(); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(tracker.path, tracker.registry)
}

func (tracker *textfileTracker) restore() error {
	f, err := os.Open(tracker.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(f)
	if err != nil {
		return nil // a corrupted textfile starts the counts over
	}

	family, ok := families[metricEventsTotal]
	if !ok {
		return nil
	}

	for _, metric := range family.GetMetric() {
		labels := prometheus.Labels{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}

		counter, err := tracker.events.GetMetricWith(labels)
		if err != nil {
			continue
		}
		if value := metric.GetCounter().GetValue(); value > 0 {
			counter.Add(value)
		}
	}
	return nil
}
