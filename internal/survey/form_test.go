package survey

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	calls    int32
	inFlight int32
	peak     int32
	received []model.AnswerSubmission
	fail     map[string]bool
	release  chan struct{}
}

func (f *fakeSubmitter) SubmitAnswer(ctx context.Context, a model.AnswerSubmission) (*model.AnswerRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, n) {
			break
		}
	}

	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, a)
	if f.fail[a.Question] {
		return nil, errors.New("backend rejected answer")
	}
	return &model.AnswerRecord{ID: len(f.received), UserID: a.UserID, Question: a.Question, Answer: a.Answer}, nil
}

func questions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{Text: string(rune('A' + i))}
	}
	return qs
}

func fill(t *testing.T, f *Form) {
	t.Helper()
	for i := range f.Questions() {
		if err := f.SetAnswer(i, "respuesta"); err != nil {
			t.Fatal(err)
		}
	}
}

func TestForm_SlotsMatchQuestions(t *testing.T) {
	f := NewForm(questions(4), &fakeSubmitter{}, 2, nil, log.Discard())
	if len(f.Answers()) != 4 {
		t.Errorf("expected 4 slots, got %d", len(f.Answers()))
	}
	if err := f.SetAnswer(4, "x"); !errors.Is(err, ErrNoSuchQuestion) {
		t.Errorf("expected ErrNoSuchQuestion, got %v", err)
	}
}

func TestForm_ValidationIssuesNoRequests(t *testing.T) {
	tests := []struct {
		name       string
		respondent int
		answers    []string
		want       error
		message    string
	}{
		{"one empty slot", 1, []string{"a", "", "c"}, ErrIncomplete, MessageIncomplete},
		{"blank slot", 1, []string{"a", "   ", "c"}, ErrIncomplete, MessageIncomplete},
		{"all empty", 1, []string{"", "", ""}, ErrIncomplete, MessageIncomplete},
		{"unknown respondent", 0, []string{"a", "b", "c"}, ErrUnknownRespondent, MessageUnknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			f := NewForm(questions(3), sub, 4, nil, log.Discard())
			for i, a := range tt.answers {
				f.SetAnswer(i, a)
			}

			result, err := f.Submit(context.Background(), tt.respondent)
			if !errors.Is(err, tt.want) || result != nil {
				t.Fatalf("Submit() = %v, %v; want %v", result, err, tt.want)
			}
			if ValidationMessage(err) != tt.message {
				t.Errorf("message = %q", ValidationMessage(err))
			}
			if sub.calls != 0 {
				t.Errorf("validation failure issued %d requests", sub.calls)
			}
			if f.State() != Collecting {
				t.Errorf("state = %v, want collecting", f.State())
			}
		})
	}
}

func TestForm_NoQuestions(t *testing.T) {
	f := NewForm(nil, &fakeSubmitter{}, 4, nil, log.Discard())
	if _, err := f.Submit(context.Background(), 1); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
}

func TestForm_SubmitAll(t *testing.T) {
	const n = 5
	sub := &fakeSubmitter{release: make(chan struct{})}
	f := NewForm(questions(n), sub, 0, nil, log.Discard())
	fill(t, f)

	done := make(chan *Result, 1)
	go func() {
		result, err := f.Submit(context.Background(), 7)
		if err != nil {
			t.Error(err)
		}
		done <- result
	}()

	// Every request is issued before any of them completes
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&sub.calls) < n && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := atomic.LoadInt32(&sub.calls); got != n {
		t.Fatalf("expected %d concurrent requests, got %d", n, got)
	}
	select {
	case <-done:
		t.Fatal("Submit returned before the requests completed")
	default:
	}
	if f.State() != Submitting {
		t.Errorf("state = %v, want submitting", f.State())
	}

	close(sub.release)
	result := <-done

	if !result.Success() || result.Submitted != n || result.Total != n {
		t.Errorf("unexpected result %+v", result)
	}
	if f.State() != Completed {
		t.Errorf("state = %v, want completed", f.State())
	}
	for i, a := range f.Answers() {
		if a != "" {
			t.Errorf("slot %d not reset: %q", i, a)
		}
	}
	for _, a := range sub.received {
		if a.UserID != 7 || a.Answer != "respuesta" {
			t.Errorf("unexpected submission %+v", a)
		}
	}
}

func TestForm_SendsAnswersAsTyped(t *testing.T) {
	sub := &fakeSubmitter{}
	f := NewForm(questions(1), sub, 0, nil, log.Discard())
	if err := f.SetAnswer(0, "  muy bueno \n"); err != nil {
		t.Fatal(err)
	}

	result, err := f.Submit(context.Background(), 3)
	if err != nil || !result.Success() {
		t.Fatalf("Submit() = %+v, %v", result, err)
	}
	if len(sub.received) != 1 || sub.received[0].Answer != "  muy bueno \n" {
		t.Errorf("received %+v", sub.received)
	}
}

func TestForm_MaxInFlight(t *testing.T) {
	sub := &fakeSubmitter{}
	f := NewForm(questions(8), sub, 2, nil, log.Discard())
	fill(t, f)

	if _, err := f.Submit(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if sub.calls != 8 {
		t.Errorf("expected 8 requests, got %d", sub.calls)
	}
	if sub.peak > 2 {
		t.Errorf("more than 2 requests in flight: %d", sub.peak)
	}
}

func TestForm_PartialFailure(t *testing.T) {
	sub := &fakeSubmitter{fail: map[string]bool{"B": true, "D": true}}
	f := NewForm(questions(5), sub, 3, nil, log.Discard())
	fill(t, f)

	result, err := f.Submit(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success() {
		t.Fatal("expected a failed result")
	}
	if result.Summary() != "3 de 5 respuestas enviadas" {
		t.Errorf("Summary() = %q", result.Summary())
	}
	if len(result.Failed) != 2 || result.Failed[0].Question != "B" || result.Failed[1].Question != "D" {
		t.Errorf("unexpected failures %+v", result.Failed)
	}
	if f.State() != Failed {
		t.Errorf("state = %v, want failed", f.State())
	}
	if answers := f.Answers(); answers[1] != "respuesta" {
		t.Error("slots must be kept after a failure")
	}
	if err := f.SetAnswer(0, "otra"); err == nil {
		t.Error("stored answers must not be editable")
	}

	// Retry only resends what failed
	sub.mu.Lock()
	sub.fail = nil
	sub.mu.Unlock()
	before := atomic.LoadInt32(&sub.calls)

	result, err = f.Submit(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() || result.Submitted != 5 {
		t.Errorf("retry result %+v", result)
	}
	if got := atomic.LoadInt32(&sub.calls) - before; got != 2 {
		t.Errorf("retry sent %d requests, want 2", got)
	}
}
