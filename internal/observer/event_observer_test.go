package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event DiagnosisEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string { return "panicking" }

func TestMetricsObserver_Counts(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)
	ctx := context.Background()

	publisher.NotifyObservers(ctx, DiagnosisEvent{EventType: DiagnosisStarted})
	publisher.NotifyObservers(ctx, DiagnosisEvent{
		EventType:      DiagnosisCompleted,
		ProcessingTime: 40 * time.Millisecond,
		Metadata:       map[string]interface{}{"noise_sigma": 0.02},
	})
	publisher.NotifyObservers(ctx, DiagnosisEvent{EventType: DiagnosisStarted})
	publisher.NotifyObservers(ctx, DiagnosisEvent{
		EventType:      DiagnosisCompleted,
		ProcessingTime: 20 * time.Millisecond,
		Metadata:       map[string]interface{}{"noise_sigma": 0.04},
	})
	publisher.NotifyObservers(ctx, DiagnosisEvent{EventType: DiagnosisStarted})
	publisher.NotifyObservers(ctx, DiagnosisEvent{EventType: ImageFetchFailed})
	publisher.NotifyObservers(ctx, DiagnosisEvent{EventType: DiagnosisFailed})

	got := metrics.GetMetrics()
	if got.TotalDiagnoses != 3 || got.SuccessfulDiagnoses != 2 || got.FailedDiagnoses != 1 || got.FetchFailures != 1 {
		t.Errorf("Unexpected counters: %+v", got)
	}
	if got.AvgProcessingTime != 30*time.Millisecond {
		t.Errorf("Expected avg 30ms, got %v", got.AvgProcessingTime)
	}
	if got.AvgNoiseSigma < 0.0299 || got.AvgNoiseSigma > 0.0301 {
		t.Errorf("Expected avg sigma 0.03, got %f", got.AvgNoiseSigma)
	}
}

func TestEventPublisher_RecoversFromPanics(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(panickingObserver{})
	publisher.Subscribe(metrics)

	publisher.NotifyObservers(context.Background(), DiagnosisEvent{EventType: DiagnosisStarted})

	if metrics.GetMetrics().TotalDiagnoses != 1 {
		t.Error("Expected observer after a panicking one to still receive the event")
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)
	publisher.Unsubscribe(metrics)

	publisher.NotifyObservers(context.Background(), DiagnosisEvent{EventType: DiagnosisStarted})
	if metrics.GetMetrics().TotalDiagnoses != 0 {
		t.Error("Expected unsubscribed observer to receive nothing")
	}
}

func TestLoggingObserver_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	obs := NewLoggingObserver(logger)
	obs.OnEvent(context.Background(), DiagnosisEvent{
		EventType:    DiagnosisFailed,
		Source:       "frames/a.png",
		ErrorMessage: "kernel too large",
		Metadata:     map[string]interface{}{"kernel_size": 9},
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" || entry["msg"] != "Diagnosis failed" {
		t.Errorf("Unexpected entry: %v", entry)
	}
	if entry["source"] != "frames/a.png" || entry["error"] != "kernel too large" || entry["kernel_size"] != float64(9) {
		t.Errorf("Missing structured fields: %v", entry)
	}
}
