package utils

import (
	"github.com/squadup/squadnet/utils/dotenv"
	"github.com/squadup/squadnet/utils/flag"
	Logger "github.com/squadup/squadnet/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// StartProfiler starts the Datadog continuous profiler for the current
// service.
func StartProfiler() {
	env := "development"
	if dotenv.IsProdEnv() {
		env = "production"
	}

	if err := profiler.Start(
		profiler.WithService(flag.ServiceName),
		profiler.WithEnv(env),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			// The profiles below are disabled by
			// default to keep overhead low, but
			// can be enabled as needed.
			// profiler.BlockProfile,
			// profiler.MutexProfile,
			// profiler.GoroutineProfile,
		),
	); err != nil {
		Logger.Log.Fatal(err)
	}
}

// CloseProfiler stops the profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
