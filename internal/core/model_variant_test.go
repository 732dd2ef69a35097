package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelVariant(t *testing.T) {
	tests := []struct {
		token         string
		want          ModelVariant
		wantFamily    Family
		wantReasoning bool
	}{
		{"coder", Coder, FamilyCoder, false},
		{"chat", Chat, FamilyChat, false},
		{"creative", Creative, FamilyCreative, false},
		{"coder-R", CoderReasoning, FamilyCoder, true},
		{"chat-R", ChatReasoning, FamilyChat, true},
		{"creative-R", CreativeReasoning, FamilyCreative, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseModelVariant(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFamily, got.Family())
			assert.Equal(t, tt.wantReasoning, got.Reasoning())
			assert.Equal(t, tt.token, got.String())
			assert.True(t, got.IsValid())
		})
	}
}

func TestParseModelVariant_Unsupported(t *testing.T) {
	for _, token := range []string{"", "Coder", "CHAT", "coder-r", "coder ", " chat", "gpt-4", "deepseek-coder", "reasoner"} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseModelVariant(token)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindUnsupportedModel))

			var coreErr *Error
			require.ErrorAs(t, err, &coreErr)
			assert.Equal(t, token, coreErr.Detail)
		})
	}
}

func TestModelVariant_ZeroValueInvalid(t *testing.T) {
	assert.False(t, ModelVariant{}.IsValid())
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))

	ctx, id := WithNewRequestID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetRequestID(ctx))
}
