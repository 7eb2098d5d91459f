package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestProcessKeepsOrder(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2}
	var progress int32

	out, err := Process(context.Background(), items, 3, func(job Job[int]) (int, error) {
		return job.Data * 10, nil
	}, func(completed, total int) {
		atomic.AddInt32(&progress, 1)
		if total != len(items) {
			t.Errorf("total = %d, want %d", total, len(items))
		}
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for i, v := range items {
		if out[i] != v*10 {
			t.Errorf("out[%d] = %d, want %d", i, out[i], v*10)
		}
	}
	if int(progress) != len(items) {
		t.Errorf("progress calls = %d, want %d", progress, len(items))
	}
}

func TestProcessReturnsJobError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Process(context.Background(), []int{1, 2, 3}, 2, func(job Job[int]) (int, error) {
		if job.Data == 2 {
			return 0, boom
		}
		return job.Data, nil
	}, nil)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Process(ctx, make([]int, 100), 4, func(job Job[int]) (int, error) {
		return job.Index, nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestProcessEmpty(t *testing.T) {
	out, err := Process(context.Background(), nil, 4, func(job Job[int]) (int, error) {
		t.Error("process called for no items")
		return 0, nil
	}, nil)
	if out != nil || err != nil {
		t.Errorf("Process(nil) = %v, %v", out, err)
	}
}
