package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jankclient/directory/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   50 * time.Millisecond,
		PoolSize:       1,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ConnectOptions) {}},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }, wantErr: true},
	}

	cl := &connectionLogger{logger: logger.Nop()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := cl.validateOptions(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_UnreachableTimesOut(t *testing.T) {
	start := time.Now()

	client, err := New(context.Background(), validOptions(), logger.Nop())

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestNew_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := New(ctx, validOptions(), logger.Nop())

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestRetryConfigBackOffIsCapped(t *testing.T) {
	r := retryConfig{initialWait: 10 * time.Millisecond, maxWait: 40 * time.Millisecond}
	bo := r.newBackOff(context.Background())

	var waits []time.Duration
	for i := 0; i < 5; i++ {
		waits = append(waits, bo.NextBackOff())
	}

	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		40 * time.Millisecond,
		40 * time.Millisecond,
	}, waits)
}
