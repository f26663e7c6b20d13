package corrector

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// BatchResult is the outcome for one text of a batch.
type BatchResult struct {
	Index  int       `json:"index"`
	Input  string    `json:"input"`
	Output string    `json:"output"`
	Op     Operation `json:"operation"`
	Err    error     `json:"-"`
	Error  string    `json:"error,omitempty"`
}

// Apply carries out a locally supported operation. OpNone returns the text
// unchanged; operations that need an external service return
// ErrUnsupportedOperation.
func (e *Engine) Apply(op Operation, text string) (string, error) {
	switch op {
	case OpNone:
		return text, nil
	case OpLayoutFix:
		return e.FixLayout(text), nil
	case OpCleanup:
		return e.Clean(text), nil
	case OpEnhancement, OpGrammar, OpTranslation:
		return text, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
	return text, fmt.Errorf("%w: %d", ErrUnknownOperation, op)
}

type batchJob struct {
	index int
	text  string
}

// ProcessBatch applies op to every text on a bounded worker pool. Results
// keep input order. Per-item failures are reported in the results; the
// returned error is only set when ctx ends before the batch is done, and then
// every text that was not processed carries that error in its slot.
func (e *Engine) ProcessBatch(ctx context.Context, texts []string, op Operation, workers int) ([]BatchResult, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = e.workers
	}
	workers = max(1, min(workers, len(texts)))

	jobs := make(chan batchJob)
	results := make([]BatchResult, len(texts))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out, err := e.Apply(op, j.text)
				r := BatchResult{Index: j.index, Input: j.text, Output: out, Op: op, Err: err}
				if err != nil {
					r.Error = err.Error()
				}
				results[j.index] = r
			}
		}()
	}

	var cancelled error
	sent := 0
send:
	for ; sent < len(texts); sent++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case jobs <- batchJob{index: sent, text: texts[sent]}:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break send
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled == nil {
		return results, nil
	}
	// Texts never handed to a worker come back untouched with the ctx error.
	for i := sent; i < len(texts); i++ {
		results[i] = BatchResult{
			Index:  i,
			Input:  texts[i],
			Output: texts[i],
			Op:     op,
			Err:    cancelled,
			Error:  cancelled.Error(),
		}
	}
	return results, fmt.Errorf("batch interrupted: %w", cancelled)
}

// Unsupported reports whether err marks an operation handled elsewhere.
func Unsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}
