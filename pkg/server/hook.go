package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/gimlet-io/hookcast/cmd/hookcast/config"
	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/notifications"
	"github.com/gimlet-io/hookcast/pkg/signature"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	eventHeader    = "X-GitHub-Event"
	deliveryHeader = "X-GitHub-Delivery"
	maxBodySize    = 10000000
)

// githubHook authenticates, classifies and broadcasts a GitHub delivery.
// Deliveries of unknown types or with malformed bodies are acknowledged so
// GitHub does not redeliver them.
func githubHook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	config := ctx.Value("config").(*config.Config)
	notificationsManager := ctx.Value("notificationsManager").(notifications.Manager)
	webhooks, _ := ctx.Value("webhooks").(*prometheus.CounterVec)
	perf, _ := ctx.Value("perf").(*prometheus.HistogramVec)

	eventName := r.Header.Get(eventHeader)
	count := func(outcome string) {
		if webhooks != nil {
			webhooks.WithLabelValues(typeLabel(eventName), outcome).Inc()
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		logrus.Errorf("could not read webhook body: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if config.Github.WebhookSecret != "" {
		header := r.Header.Get(signature.Header256)
		if header == "" {
			header = r.Header.Get(signature.Header)
		}
		if err := signature.Verify(body, header, config.Github.WebhookSecret); err != nil {
			logrus.WithField("delivery", r.Header.Get(deliveryHeader)).Warn(err)
			count("forbidden")
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}

	if eventName == "" {
		count("invalid")
		http.Error(w, "missing "+eventHeader+" header", http.StatusBadRequest)
		return
	}
	if eventName == "ping" {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
		return
	}

	deliveryID, err := uuid.Parse(r.Header.Get(deliveryHeader))
	if err != nil {
		count("invalid")
		http.Error(w, "invalid "+deliveryHeader+" header", http.StatusBadRequest)
		return
	}

	logger := logrus.WithField("delivery", deliveryID)
	if _, err := event.ParseType(eventName); err != nil {
		logger.Warn(err)
		count("unsupported")
		w.WriteHeader(http.StatusOK)
		return
	}

	body, err = payloadOf(r, body)
	if err != nil {
		logger.Error(err)
		count("malformed")
		w.WriteHeader(http.StatusOK)
		return
	}

	e, err := event.Classify(eventName, body)
	if err != nil {
		logger.Error(err)
		count("malformed")
		w.WriteHeader(http.StatusOK)
		return
	}

	start := time.Now()
	notificationsManager.HandlePayload(event.NewPayload(deliveryID, e))
	if perf != nil {
		perf.WithLabelValues("githubHook").Observe(time.Since(start).Seconds())
	}

	count("accepted")
	w.WriteHeader(http.StatusOK)
}

// payloadOf returns the JSON document of a delivery. Form encoded deliveries
// carry it in the payload field.
func payloadOf(r *http.Request, body []byte) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return body, nil
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, errors.New("invalid form encoded body")
	}
	if !values.Has("payload") {
		return nil, errors.New("form encoded body without payload field")
	}
	return []byte(values.Get("payload")), nil
}

// typeLabel keeps the cardinality of the event type label bounded.
func typeLabel(name string) string {
	if name == "ping" {
		return name
	}
	t, err := event.ParseType(name)
	if err != nil {
		return "other"
	}
	return string(t)
}
