package config

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"S3_PATH_STYLE":    "true",
		"ACCEPTED_ORIGINS": "https://atmos.example, ,http://localhost:3000",
		"SOCIAL_LINKS":     "instagram=https://instagram.com/atmos,broken,soundcloud = https://soundcloud.com/atmos",
		"EMPTY":            "",
	}

	assert.Equal(t, 9090, GetInt(cfg, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "BAD_INT", 8080))
	assert.True(t, GetBool(cfg, "S3_PATH_STYLE", false))
	assert.Equal(t, "fallback", GetString(cfg, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
	assert.Equal(t, []string{"https://atmos.example", "http://localhost:3000"}, GetList(cfg, "ACCEPTED_ORIGINS"))
	assert.Equal(t, [][2]string{
		{"instagram", "https://instagram.com/atmos"},
		{"soundcloud", "https://soundcloud.com/atmos"},
	}, GetPairs(cfg, "SOCIAL_LINKS"))
}

func TestSplit(t *testing.T) {
	key, value := split("DSN=host=db user=atmos")
	assert.Equal(t, "DSN", key)
	assert.Equal(t, "host=db user=atmos", value)

	key, value = split("FLAG")
	assert.Equal(t, "FLAG", key)
	assert.Equal(t, "", value)
}

type fakeParameterGetter struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeParameterGetter) GetParametersByPath(_ context.Context, _ *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestOverlayParameters(t *testing.T) {
	client := &fakeParameterGetter{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{{Name: aws.String("/atmos/prod/jwt_secret"), Value: aws.String("s3cret")}},
			NextToken:  aws.String("next"),
		},
		{
			Parameters: []types.Parameter{{Name: aws.String("/atmos/prod/port"), Value: aws.String("1234")}},
		},
	}}
	cfg := map[string]string{"PORT": "8080"}

	require.NoError(t, overlayParameters(context.Background(), client, "/atmos/prod", cfg))

	assert.Equal(t, "s3cret", cfg["JWT_SECRET"])
	assert.Equal(t, "8080", cfg["PORT"], "environment values take precedence")
	assert.Equal(t, 2, client.calls)
}
