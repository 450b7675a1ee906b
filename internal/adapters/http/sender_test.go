package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/axship/internal/domain"
	"github.com/bft-labs/axship/internal/ports"
	"github.com/bft-labs/axship/pkg/log"
)

type capturedRequest struct {
	method          string
	path            string
	authorization   string
	contentType     string
	contentEncoding string
	body            string
}

// stubServer records the last request and answers with a fixed status and body.
func stubServer(t *testing.T, status int, respBody string) (*httptest.Server, func() capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var last capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reader io.Reader = r.Body
		if r.Header.Get("Content-Encoding") == "gzip" {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				t.Errorf("gzip reader: %v", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			defer zr.Close()
			reader = zr
		}
		b, _ := io.ReadAll(reader)

		mu.Lock()
		last = capturedRequest{
			method:          r.Method,
			path:            r.URL.EscapedPath(),
			authorization:   r.Header.Get("Authorization"),
			contentType:     r.Header.Get("Content-Type"),
			contentEncoding: r.Header.Get("Content-Encoding"),
			body:            string(b),
		}
		mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)

	return srv, func() capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func newTestSender() *IngestSender {
	return NewIngestSender(http.DefaultClient, log.NewNoopLogger())
}

func TestIngestSender_Success_Gzip(t *testing.T) {
	srv, last := stubServer(t, http.StatusOK, "")
	s := newTestSender()

	payload := domain.Payload{
		Body:        `[{"a":1}]`,
		ContentType: domain.ContentTypeJSON,
		Encoding:    domain.EncodingGzip,
		Items:       1,
	}
	meta := ports.SendMetadata{Token: "tok", Dataset: "events", ServiceURL: srv.URL}

	if err := s.Send(context.Background(), payload, meta); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got := last()
	if got.method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.method)
	}
	if got.path != "/v1/datasets/events/ingest" {
		t.Errorf("path = %s", got.path)
	}
	if got.authorization != "Bearer tok" {
		t.Errorf("Authorization = %q", got.authorization)
	}
	if got.contentType != "application/json" {
		t.Errorf("Content-Type = %q", got.contentType)
	}
	if got.contentEncoding != "gzip" {
		t.Errorf("Content-Encoding = %q", got.contentEncoding)
	}
	if got.body != payload.Body {
		t.Errorf("body = %q, want %q", got.body, payload.Body)
	}
}

func TestIngestSender_Success_Identity(t *testing.T) {
	srv, last := stubServer(t, http.StatusOK, "")
	s := newTestSender()

	payload := domain.Payload{
		Body:        "a,b\n1,2",
		ContentType: domain.ContentTypeCSV,
		Encoding:    domain.EncodingIdentity,
	}
	meta := ports.SendMetadata{Token: "tok", Dataset: "my data", ServiceURL: srv.URL}

	if err := s.Send(context.Background(), payload, meta); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got := last()
	if got.contentEncoding != "" {
		t.Errorf("Content-Encoding = %q, want empty", got.contentEncoding)
	}
	if got.contentType != "text/csv" {
		t.Errorf("Content-Type = %q", got.contentType)
	}
	if got.path != "/v1/datasets/my%20data/ingest" {
		t.Errorf("path = %s", got.path)
	}
	if got.body != "a,b\n1,2" {
		t.Errorf("body = %q", got.body)
	}
}

func TestIngestSender_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "403 is auth failure regardless of body",
			status: http.StatusForbidden,
			body:   `{"message":"whatever"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domain.ErrAuth) {
					t.Errorf("error = %v, want ErrAuth", err)
				}
			},
		},
		{
			name:   "400 is invalid payload with remote message",
			status: http.StatusBadRequest,
			body:   `{"message":"bad field"}`,
			check: func(t *testing.T, err error) {
				var ipe *domain.InvalidPayloadError
				if !errors.As(err, &ipe) {
					t.Fatalf("error = %v, want InvalidPayloadError", err)
				}
				if ipe.Message != "bad field" {
					t.Errorf("message = %q, want %q", ipe.Message, "bad field")
				}
				if !errors.Is(err, domain.ErrInvalidPayload) {
					t.Error("should match ErrInvalidPayload")
				}
			},
		},
		{
			name:   "500 is generic failure with remote message",
			status: http.StatusInternalServerError,
			body:   `{"message":"oops"}`,
			check: func(t *testing.T, err error) {
				var apiErr *domain.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("error = %v, want APIError", err)
				}
				if apiErr.Message != "oops" || apiErr.StatusCode != 500 {
					t.Errorf("APIError = %+v", apiErr)
				}
			},
		},
		{
			name:   "non-JSON body falls back to text",
			status: http.StatusBadGateway,
			body:   "upstream down\n",
			check: func(t *testing.T, err error) {
				var apiErr *domain.APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "upstream down" {
					t.Errorf("error = %v", err)
				}
			},
		},
		{
			name:   "empty body falls back to status text",
			status: http.StatusServiceUnavailable,
			body:   "",
			check: func(t *testing.T, err error) {
				var apiErr *domain.APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "Service Unavailable" {
					t.Errorf("error = %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := stubServer(t, tt.status, tt.body)
			s := newTestSender()

			err := s.Send(context.Background(), domain.Payload{
				Body:        "{}",
				ContentType: domain.ContentTypeNDJSON,
				Encoding:    domain.EncodingGzip,
			}, ports.SendMetadata{Token: "t", Dataset: "d", ServiceURL: srv.URL})
			if err == nil {
				t.Fatal("Send() expected error")
			}
			tt.check(t, err)
		})
	}
}

// failingClient returns an error for every request.
type failingClient struct{}

func (failingClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestIngestSender_TransportError(t *testing.T) {
	s := NewIngestSender(failingClient{}, log.NewNoopLogger())

	err := s.Send(context.Background(), domain.Payload{
		Body:        "[]",
		ContentType: domain.ContentTypeJSON,
		Encoding:    domain.EncodingIdentity,
	}, ports.SendMetadata{Dataset: "d", ServiceURL: "http://example.invalid"})

	if err == nil || !strings.Contains(err.Error(), "send request") {
		t.Errorf("Send() error = %v, want send request error", err)
	}
}

func TestIngestSender_UnsupportedEncoding(t *testing.T) {
	s := newTestSender()
	err := s.Send(context.Background(), domain.Payload{
		Body:        "[]",
		ContentType: domain.ContentTypeJSON,
		Encoding:    "br",
	}, ports.SendMetadata{Dataset: "d", ServiceURL: "http://example.invalid"})
	if err == nil {
		t.Error("Send() expected error for unsupported encoding")
	}
}
