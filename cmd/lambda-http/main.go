package main

// Build the Lambda handler binary (gosseract needs cgo and a Tesseract layer):
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=1 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"ocr-backend/internal/bootstrap"
	"ocr-backend/internal/shared/config"
	"ocr-backend/internal/shared/telemetry"
)

// coldStart holds the app built once per Lambda execution environment.
type coldStart struct {
	once    sync.Once
	err     error
	adapter *ginadapter.GinLambdaV2
	build   func(config.Config) (*bootstrap.App, error)
}

var lambdaApp = &coldStart{build: bootstrap.Build}

func (s *coldStart) init() {
	start := time.Now()
	app, err := s.build(config.Load())
	if err != nil {
		s.err = err
		telemetry.Error("lambda.init_failed", map[string]any{"error": err.Error()})
		return
	}
	s.adapter = ginadapter.NewV2(app.Router)
	telemetry.Info("lambda.init", map[string]any{
		"duration_ms": time.Since(start).Milliseconds(),
		"store":       app.Config.ObjectStoreType,
	})
}

func (s *coldStart) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	s.once.Do(s.init)
	if s.err != nil || s.adapter == nil {
		return errorResponse(http.StatusServiceUnavailable, "unavailable", "ocr service failed to start"), nil
	}
	return s.adapter.ProxyWithContext(ctx, req)
}

func errorResponse(status int, code, msg string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"error": msg, "code": code})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(lambdaApp.handle)
}
