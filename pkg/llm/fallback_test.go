package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opst/orcaobra/pkg/llm"
	mock "github.com/opst/orcaobra/pkg/llm/mock"
)

type observation struct {
	provider string
	failed   bool
}

type recorder struct {
	observations []observation
}

func (r *recorder) ObserveLLM(provider string, err error, _ time.Duration) {
	r.observations = append(r.observations, observation{provider: provider, failed: err != nil})
}

func TestFallback(t *testing.T) {
	t.Run("the first provider succeeds", func(t *testing.T) {
		first := mock.NewCompleter(t, "groq")
		first.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return "from groq", nil
		}
		second := mock.NewCompleter(t, "gemini")

		rec := &recorder{}
		testee := llm.Fallback([]llm.Completer{first, second}, llm.WithObserver(rec))
		got, err := testee.Complete(context.Background(), llm.Prompt{User: "olá", JSON: true})
		if err != nil {
			t.Fatal(err)
		}
		if got != "from groq" {
			t.Errorf("answer: %s", got)
		}
		if len(first.Calls.Complete) != 1 || !first.Calls.Complete[0].Prompt.JSON {
			t.Errorf("first provider calls: %+v", first.Calls.Complete)
		}
		if len(second.Calls.Complete) != 0 {
			t.Errorf("second provider is called")
		}
		if len(rec.observations) != 1 || rec.observations[0] != (observation{provider: "groq"}) {
			t.Errorf("observations: %+v", rec.observations)
		}
	})

	t.Run("falls back to the next provider", func(t *testing.T) {
		first := mock.NewCompleter(t, "groq")
		first.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return "", errors.New("rate limited")
		}
		second := mock.NewCompleter(t, "gemini")
		second.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return "from gemini", nil
		}

		rec := &recorder{}
		testee := llm.Fallback([]llm.Completer{first, second}, llm.WithObserver(rec))
		got, err := testee.Complete(context.Background(), llm.Prompt{User: "olá"})
		if err != nil {
			t.Fatal(err)
		}
		if got != "from gemini" {
			t.Errorf("answer: %s", got)
		}
		expected := []observation{{provider: "groq", failed: true}, {provider: "gemini"}}
		if len(rec.observations) != 2 || rec.observations[0] != expected[0] || rec.observations[1] != expected[1] {
			t.Errorf("observations: %+v", rec.observations)
		}
	})

	t.Run("all providers fail", func(t *testing.T) {
		errGroq := errors.New("groq down")
		errGemini := errors.New("gemini down")
		first := mock.NewCompleter(t, "groq")
		first.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return "", errGroq
		}
		second := mock.NewCompleter(t, "gemini")
		second.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			return "", errGemini
		}

		_, err := llm.Fallback([]llm.Completer{first, second}).Complete(context.Background(), llm.Prompt{})
		if !errors.Is(err, errGroq) || !errors.Is(err, errGemini) {
			t.Errorf("error should join both: %v", err)
		}
	})

	t.Run("no providers", func(t *testing.T) {
		_, err := llm.Fallback(nil).Complete(context.Background(), llm.Prompt{})
		if !errors.Is(err, llm.ErrNoProvider) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("stops when context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		first := mock.NewCompleter(t, "groq")
		first.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			cancel()
			return "", context.Canceled
		}
		second := mock.NewCompleter(t, "gemini")

		_, err := llm.Fallback([]llm.Completer{first, second}).Complete(ctx, llm.Prompt{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(second.Calls.Complete) != 0 {
			t.Errorf("second provider is called after cancel")
		}
	})

	t.Run("timeout bounds every provider", func(t *testing.T) {
		first := mock.NewCompleter(t, "groq")
		first.Impl.Complete = func(ctx context.Context, p llm.Prompt) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}
		second := mock.NewCompleter(t, "gemini")

		testee := llm.Fallback([]llm.Completer{first, second}, llm.WithTimeout(10*time.Millisecond))
		_, err := testee.Complete(context.Background(), llm.Prompt{})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(second.Calls.Complete) != 0 {
			t.Errorf("second provider is called after timeout")
		}
	})
}

func TestObserved(t *testing.T) {
	d := mock.NewDescriber(t)
	d.Impl.Describe = func(ctx context.Context, image []byte, mime string, prompt string) (string, error) {
		return "parede de alvenaria", nil
	}
	rec := &recorder{}
	got, err := llm.Observed(d, rec).Describe(context.Background(), []byte{1}, "image/png", "descreva")
	if err != nil {
		t.Fatal(err)
	}
	if got != "parede de alvenaria" {
		t.Errorf("caption: %s", got)
	}
	if len(rec.observations) != 1 || rec.observations[0].provider != "mock" {
		t.Errorf("observations: %+v", rec.observations)
	}
}
