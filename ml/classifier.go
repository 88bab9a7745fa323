// Package ml wraps the external machine-learning prediction services. The
// HTTP transport lives behind the Classifier interface so handlers and tests
// never depend on a live inference endpoint.
package ml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Inference calls are slow on cold models; the upstream services get a long
// fixed timeout and failures are never retried.
const requestTimeout = 120 * time.Second

// ErrUpstream indicates the prediction service was unreachable, timed out,
// or answered with a non-2xx status. Callers surface it as a server error
// and prompt the user to resubmit.
var ErrUpstream = errors.New("prediction service unavailable")

// ImageInput carries the uploaded image and patient metadata forwarded to
// the image classifier.
type ImageInput struct {
	FileName    string
	Data        []byte
	PatientName string
	Email       string
}

// SymptomInput carries the symptom-checklist fields forwarded to the
// symptom classifier.
type SymptomInput struct {
	BodyPart string   `json:"body_part"`
	Symptoms []string `json:"symptoms"`
}

// Classifier is the capability boundary to the external prediction
// services. Implementations return the upstream JSON body verbatim so the
// API relays whatever fields the model vocabulary version includes.
type Classifier interface {
	ClassifyImage(ctx context.Context, input ImageInput) ([]byte, error)
	ClassifySymptoms(ctx context.Context, input SymptomInput) ([]byte, error)
}

// HTTPClassifier calls the prediction services over HTTP.
type HTTPClassifier struct {
	client     *resty.Client
	imageURL   string
	symptomURL string
}

// NewHTTPClassifier builds a classifier for the given service base URLs.
func NewHTTPClassifier(imageURL, symptomURL string) *HTTPClassifier {
	return &HTTPClassifier{
		client:     resty.New().SetTimeout(requestTimeout),
		imageURL:   imageURL,
		symptomURL: symptomURL,
	}
}

// ClassifyImage forwards the image and patient metadata as a multipart
// request and returns the upstream JSON body unmodified.
func (h *HTTPClassifier) ClassifyImage(ctx context.Context, input ImageInput) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetFileReader("file", input.FileName, bytes.NewReader(input.Data)).
		SetFormData(map[string]string{
			"patientName": input.PatientName,
			"email":       input.Email,
		}).
		Post(h.imageURL + "/predict")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	return resp.Body(), nil
}

// ClassifySymptoms forwards the symptom checklist as JSON and returns the
// upstream body unmodified.
func (h *HTTPClassifier) ClassifySymptoms(ctx context.Context, input SymptomInput) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(input).
		Post(h.symptomURL + "/predict")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	return resp.Body(), nil
}
