package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	totalRuns   int
	workerCount int
)

const workerStaggerDelay = 50 * time.Millisecond

func main() {
	parseArgs()

	_ = godotenv.Load()

	logger := newLogger("gatecrash.log", GetLogLevel())
	defer logger.Sync()

	proxies, err := LoadProxies(GetProxyFile())
	if err != nil {
		logger.Fatalw("failed to load proxies", "error", err)
	}
	if proxies.Count() > 0 {
		logger.Infow("loaded proxies", "count", proxies.Count())
	} else {
		logger.Infow("no proxy file found, connecting directly")
	}

	scheduler := NewScheduler(workerCount, proxies, workerStaggerDelay, logger)
	os.Exit(run(scheduler, logger))
}

func parseArgs() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: gatecrash <total-runs> <worker-count>")
	}

	var err error
	totalRuns, err = strconv.Atoi(os.Args[1])
	if err != nil || totalRuns <= 0 {
		log.Fatal("total-runs must be a positive integer")
	}
	workerCount, err = strconv.Atoi(os.Args[2])
	if err != nil || workerCount <= 0 {
		log.Fatal("worker-count must be a positive integer")
	}
}

func run(scheduler *Scheduler, logger *zap.SugaredLogger) int {
	logger.Infow("starting workers",
		"workers", workerCount,
		"runs", totalRuns,
		"stagger", workerStaggerDelay,
		"target", GetBaseURL(),
	)

	ctx := context.Background()
	scheduler.Start(ctx)

	go func() {
		for range totalRuns {
			scheduler.Submit()
		}
	}()

	counts := make(map[Outcome]int)
	finished := 0
	var fatalErr error

	for result := range scheduler.Results() {
		if result.Fatal {
			fatalErr = result.Err
			break
		}

		finished++
		if result.Err != nil {
			logger.Warnw("run not started", "error", result.Err)
		} else {
			counts[result.Outcome]++
			logger.Infow("run finished",
				"done", finished,
				"total", totalRuns,
				"outcome", result.Outcome.String(),
				"identity_email", result.IdentityEmail,
			)
		}

		if finished >= totalRuns {
			break
		}
	}

	scheduler.Close()

	if fatalErr != nil {
		logger.Errorw("aborted", "finished", finished, "error", fatalErr)
		return 1
	}

	logger.Infow("complete",
		"runs", finished,
		"captcha_stage", counts[OutcomeCaptchaStageReached],
		"error_003", counts[OutcomeRegistrationError003],
		"unexpected", counts[OutcomeUnexpectedResponse],
		"transport_failures", counts[OutcomeTransportFailure],
	)
	return 0
}
