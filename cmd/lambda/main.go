// Command lambda serves the textdrop API from AWS Lambda behind API Gateway.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/smallwat3r/textdrop/internal/app"
	"github.com/smallwat3r/textdrop/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	// TLS terminates at API Gateway
	cfg.RequireHTTPS = false

	deps, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}

	adapter := httpadapter.New(deps.Router)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
