package feast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/bookrec/core"
)

type fakeClient struct {
	values map[interface{}]map[string]interface{}
	err    error
	last   *GetOnlineFeaturesRequest
	closed bool
}

func (c *fakeClient) GetOnlineFeatures(_ context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error) {
	c.last = req
	if c.err != nil {
		return nil, c.err
	}
	vectors := make([]FeatureVector, len(req.EntityRows))
	for i, row := range req.EntityRows {
		vectors[i] = FeatureVector{Values: c.values[row[DefaultEntityKey]], EntityRow: row}
	}
	return &GetOnlineFeaturesResponse{FeatureVectors: vectors}, nil
}

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

func TestStatsService_BatchGetBookStats(t *testing.T) {
	client := &fakeClient{values: map[interface{}]map[string]interface{}{
		int64(101): {DefaultAvgRatingFeature: 4.25, DefaultRatingCountFeature: float64(1200)},
		int64(202): {DefaultRatingCountFeature: int64(80)},
	}}
	svc := NewStatsService(client, "bookrec")

	got, err := svc.BatchGetBookStats(context.Background(), []string{"101", "202", "303"})
	require.NoError(t, err)

	require.Contains(t, got, "101")
	assert.InDelta(t, 4.25, *got["101"].AvgRating, 1e-9)
	assert.Equal(t, int64(1200), *got["101"].RatingsCount)

	require.Contains(t, got, "202")
	assert.Nil(t, got["202"].AvgRating)
	assert.Equal(t, int64(80), *got["202"].RatingsCount)

	assert.NotContains(t, got, "303")
	assert.Equal(t, "bookrec", client.last.Project)
	assert.Equal(t, []string{DefaultAvgRatingFeature, DefaultRatingCountFeature}, client.last.Features)

	require.NoError(t, svc.Close(context.Background()))
	assert.True(t, client.closed)
}

func TestStatsService_Errors(t *testing.T) {
	_, err := (&StatsService{}).BatchGetBookStats(context.Background(), []string{"1"})
	assert.True(t, core.IsUnavailable(err))

	svc := NewStatsService(&fakeClient{err: errors.New("connection refused")}, "bookrec")
	_, err = svc.BatchGetBookStats(context.Background(), []string{"1"})
	assert.True(t, core.IsUnavailable(err))
	assert.ErrorContains(t, err, "connection refused")

	got, err := svc.BatchGetBookStats(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEntityValue(t *testing.T) {
	assert.Equal(t, int64(101), entityValue("101"))
	assert.Equal(t, "OL123W", entityValue("OL123W"))
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		host     string
		port     int
	}{
		{"localhost:6565", "localhost", 6565},
		{"grpc://feast:7000", "feast", 7000},
		{"feast", "feast", 0},
	}
	for _, tt := range tests {
		host, port := parseEndpoint(tt.endpoint)
		assert.Equal(t, tt.host, host, tt.endpoint)
		assert.Equal(t, tt.port, port, tt.endpoint)
	}
}

func TestConvertFromSDKValue(t *testing.T) {
	assert.Nil(t, convertFromSDKValue(nil))
	assert.Equal(t, 3.5, convertFromSDKValue(3.5))
	assert.Equal(t, float64(7), convertFromSDKValue(int64(7)))
	assert.Nil(t, convertFromSDKValue("text"))
}
