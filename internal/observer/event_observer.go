package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DiagnosisEvent describes one step of a diagnostics request
type DiagnosisEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of diagnosis event
type EventType string

const (
	DiagnosisStarted   EventType = "diagnosis_started"
	DiagnosisCompleted EventType = "diagnosis_completed"
	DiagnosisFailed    EventType = "diagnosis_failed"
	ImageFetched       EventType = "image_fetched"
	ImageFetchFailed   EventType = "image_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event DiagnosisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event DiagnosisEvent)
}

// LoggingObserver logs diagnosis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnEvent(ctx context.Context, event DiagnosisEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"source":          event.Source,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case DiagnosisStarted:
		entry.Info("Diagnosis started")
	case DiagnosisCompleted:
		entry.Info("Diagnosis completed")
	case DiagnosisFailed:
		entry.Error("Diagnosis failed")
	case ImageFetched:
		entry.Debug("Image fetched")
	case ImageFetchFailed:
		entry.Error("Image fetch failed")
	default:
		entry.Info("Diagnosis event")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// Metrics is a snapshot of MetricsObserver counters
type Metrics struct {
	TotalDiagnoses      int64         `json:"total_diagnoses"`
	SuccessfulDiagnoses int64         `json:"successful_diagnoses"`
	FailedDiagnoses     int64         `json:"failed_diagnoses"`
	FetchFailures       int64         `json:"fetch_failures"`
	TotalProcessingTime time.Duration `json:"total_processing_time_ns"`
	AvgProcessingTime   time.Duration `json:"avg_processing_time_ns"`
	AvgNoiseSigma       float64       `json:"avg_noise_sigma"`
}

// MetricsObserver aggregates counters from diagnosis events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalDiagnoses      int64
	successfulDiagnoses int64
	failedDiagnoses     int64
	fetchFailures       int64
	totalProcessingTime time.Duration
	sigmaSum            float64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent counts events. A completed event may carry "noise_sigma" metadata.
func (o *MetricsObserver) OnEvent(ctx context.Context, event DiagnosisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case DiagnosisStarted:
		o.totalDiagnoses++
	case DiagnosisCompleted:
		o.successfulDiagnoses++
		o.totalProcessingTime += event.ProcessingTime
		if sigma, ok := event.Metadata["noise_sigma"].(float64); ok {
			o.sigmaSum += sigma
		}
	case DiagnosisFailed:
		o.failedDiagnoses++
	case ImageFetchFailed:
		o.fetchFailures++
	}
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	m := Metrics{
		TotalDiagnoses:      o.totalDiagnoses,
		SuccessfulDiagnoses: o.successfulDiagnoses,
		FailedDiagnoses:     o.failedDiagnoses,
		FetchFailures:       o.fetchFailures,
		TotalProcessingTime: o.totalProcessingTime,
	}
	if o.successfulDiagnoses > 0 {
		m.AvgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulDiagnoses)
		m.AvgNoiseSigma = o.sigmaSum / float64(o.successfulDiagnoses)
	}
	return m
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{observers: make([]Observer, 0)}
}

func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes the first observer with the same name
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer in subscription order.
// A panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event DiagnosisEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event DiagnosisEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
