package utils

import (
	"github.com/squadup/squadnet/utils/dotenv"
	"github.com/squadup/squadnet/utils/flag"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the Datadog tracer for the current service.
func StartTracer() {
	env := "development"
	if dotenv.IsProdEnv() {
		env = "production"
	}

	tracer.Start(
		tracer.WithService(flag.ServiceName),
		tracer.WithEnv(env),
	)
}

// CloseTracer stops the tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
