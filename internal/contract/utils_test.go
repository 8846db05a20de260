package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorMood(t *testing.T) {
	for _, m := range schema.AllMoods {
		t.Run(string(m), func(t *testing.T) {
			assert.Contains(t, GetColorMood(m), string(m))
		})
	}
	assert.Equal(t, "sleepy", GetColorMood("sleepy"))
}

func TestGetMoodEmoji(t *testing.T) {
	for _, m := range schema.AllMoods {
		assert.NotEmpty(t, GetMoodEmoji(m), "mood %s needs an emoji", m)
	}
	assert.Empty(t, GetMoodEmoji("sleepy"))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.json")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestGetDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetDBFilePath(), ".gitpet.db"))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		got, err := ParseBoolString(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("analyze: %w", NewFetchError(ErrFetchNetwork, "huangsam/gitpet", cause))

	assert.ErrorIs(t, err, ErrFetchNetwork)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFetchNotFound)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "huangsam/gitpet", fe.Scope)
	assert.Contains(t, err.Error(), "connection refused")

	bare := NewFetchError(ErrFetchTimeout, "x/y", nil)
	assert.Equal(t, "fetch x/y: commit fetch timed out", bare.Error())
}

func TestFetchKindLabel(t *testing.T) {
	assert.Equal(t, "timeout", FetchKindLabel(NewFetchError(ErrFetchTimeout, "s", nil)))
	assert.Equal(t, "rate_limited", FetchKindLabel(NewFetchError(ErrFetchRateLimited, "s", nil)))
	assert.Equal(t, "not_found", FetchKindLabel(NewFetchError(ErrFetchNotFound, "s", nil)))
	assert.Equal(t, "network", FetchKindLabel(NewFetchError(ErrFetchNetwork, "s", nil)))
	assert.Equal(t, "auth", FetchKindLabel(NewFetchError(ErrFetchAuth, "s", nil)))
	assert.Equal(t, "malformed", FetchKindLabel(NewFetchError(ErrFetchMalformed, "s", nil)))
	assert.Equal(t, "unknown", FetchKindLabel(errors.New("boom")))
}
