package xmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Internal", KindInternal.String())
	assert.Equal(t, "Consumer", KindConsumer.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

type nilObserver struct{}

func (nilObserver) Start(context.Context, SpanOptions) (context.Context, Span) {
	return nil, nil
}

func TestStart_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		observer Observer
	}{
		{name: "nil observer", observer: nil},
		{name: "空实现", observer: NoopObserver{}},
		{name: "返回 nil 的实现", observer: nilObserver{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:staticcheck // 测试 nil ctx 兜底
			ctx, span := Start(nil, tt.observer, SpanOptions{Component: "c"})
			assert.NotNil(t, ctx)
			assert.NotNil(t, span)
			span.End(Result{})
		})
	}
}

func TestAttrHelpers(t *testing.T) {
	assert.Equal(t, Attr{Key: "format", Value: "zip"}, String("format", "zip"))
	assert.Equal(t, Attr{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Attr{Key: "ok", Value: true}, Bool("ok", true))
}
