package axship_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/bft-labs/axship/pkg/axship"
)

// echoServer prints every request body it receives.
func echoServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Printf("%s %s\n%s\n", r.Method, r.URL.Path, body)
	}))
}

func ExampleNewJSONPool() {
	srv := echoServer()
	defer srv.Close()

	type event struct {
		Service string `json:"service"`
		Status  int    `json:"status"`
	}

	pool, err := axship.NewJSONPool[event](axship.JSONConfig{
		Config: axship.Config{
			Token:         "xaat-example",
			Dataset:       "http-logs",
			Encoding:      axship.EncodingIdentity,
			UseRemoteTime: true,
			ServiceURL:    srv.URL,
		},
		Format: axship.FormatNDJSON,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = pool.Injest(event{Service: "api", Status: 200}, event{Service: "api", Status: 503})
	if err := pool.Shutdown(context.Background()); err != nil {
		fmt.Println(err)
	}
	// Output:
	// POST /v1/datasets/http-logs/ingest
	// {"service":"api","status":200}
	// {"service":"api","status":503}
}

func ExampleNewCSVPool() {
	srv := echoServer()
	defer srv.Close()

	pool, err := axship.NewCSVPool(axship.CSVConfig{
		Config: axship.Config{
			Token:         "xaat-example",
			Dataset:       "jobs",
			Encoding:      axship.EncodingIdentity,
			UseRemoteTime: true,
			ServiceURL:    srv.URL,
		},
		Header: "job,result",
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = pool.InjestLines("backup,ok", "reindex,failed")
	if err := pool.Flush(context.Background()); err != nil {
		fmt.Println(err)
	}
	// Output:
	// POST /v1/datasets/jobs/ingest
	// job,result
	// backup,ok
	// reindex,failed
}

func ExampleClient_Ingest() {
	srv := echoServer()
	defer srv.Close()

	client, err := axship.NewClient(axship.Config{Token: "xaat-example", ServiceURL: srv.URL})
	if err != nil {
		fmt.Println(err)
		return
	}

	err = client.Ingest(context.Background(), axship.Request{
		Dataset:  "deploys",
		Encoding: axship.EncodingIdentity,
		Items:    []axship.Item{axship.JSON(map[string]string{"version": "1.4.2"})},
	})
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// POST /v1/datasets/deploys/ingest
	// [{"version":"1.4.2"}]
}

func ExampleNewJSONPool_validation() {
	_, err := axship.NewJSONPool[map[string]any](axship.JSONConfig{
		Config: axship.Config{Token: "xaat-example"},
	})
	fmt.Println(errors.Is(err, axship.ErrInvalidConfig))
	fmt.Println(err)
	// Output:
	// true
	// axship: invalid configuration: dataset is required
}
