package mocks

import (
	"context"
	"testing"

	"github.com/opst/orcaobra/pkg/llm"
)

type CompleteArgs struct {
	Prompt llm.Prompt
}

type MockCompleter struct {
	t        *testing.T
	Provider string
	Impl     struct {
		Complete func(ctx context.Context, p llm.Prompt) (string, error)
	}
	Calls struct {
		Complete []CompleteArgs
	}
}

func NewCompleter(t *testing.T, name string) *MockCompleter {
	return &MockCompleter{t: t, Provider: name}
}

var _ llm.Completer = &MockCompleter{}

func (m *MockCompleter) Name() string {
	return m.Provider
}

func (m *MockCompleter) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	m.t.Helper()
	m.Calls.Complete = append(m.Calls.Complete, CompleteArgs{Prompt: p})
	if m.Impl.Complete == nil {
		m.t.Fatal("Complete is not implemented")
	}
	return m.Impl.Complete(ctx, p)
}

type DescribeArgs struct {
	Image  []byte
	Mime   string
	Prompt string
}

type MockDescriber struct {
	t    *testing.T
	Impl struct {
		Describe func(ctx context.Context, image []byte, mime string, prompt string) (string, error)
	}
	Calls struct {
		Describe []DescribeArgs
	}
}

func NewDescriber(t *testing.T) *MockDescriber {
	return &MockDescriber{t: t}
}

var _ llm.Describer = &MockDescriber{}

func (m *MockDescriber) Name() string {
	return "mock"
}

func (m *MockDescriber) Describe(ctx context.Context, image []byte, mime string, prompt string) (string, error) {
	m.t.Helper()
	m.Calls.Describe = append(m.Calls.Describe, DescribeArgs{Image: image, Mime: mime, Prompt: prompt})
	if m.Impl.Describe == nil {
		m.t.Fatal("Describe is not implemented")
	}
	return m.Impl.Describe(ctx, image, mime, prompt)
}
