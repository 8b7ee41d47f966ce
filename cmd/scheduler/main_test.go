package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
)

func TestCycleJob_OverlappingRunIsSkipped(t *testing.T) {
	var runs int32
	release := make(chan struct{})

	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		atomic.AddInt32(&runs, 1)
		<-release
	}))

	//long-running cycle holds the browser session
	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	//a tick firing mid-cycle must not start a second one
	job.Run()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	close(release)
	<-done

	//after the cycle ends the next tick runs normally
	job.Run()
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}
