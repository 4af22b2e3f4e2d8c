package outbound

import "time"

type MetricsPort interface {
	StageResult(stage string, cacheHit bool)
	SynthesisCall(duration time.Duration, err error)
	PipelineOutcome(statusCode int)
}
