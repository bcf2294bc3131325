//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"census/internal/imports/cache"
	"census/internal/imports/models"
	"census/pkg/testutil/containers"
)

type RedisBackendSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	backend *cache.RedisBackend
}

func TestRedisBackendSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBackendSuite))
}

func (s *RedisBackendSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.backend = cache.NewRedisBackend(s.redis.Client, time.Minute)
}

func (s *RedisBackendSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisBackendSuite) TestFieldsShareOneExpiringKey() {
	ctx := context.Background()
	s.Require().NoError(s.backend.Set(ctx, 5, "birthdays", []byte(`{"1":[]}`)))
	s.Require().NoError(s.backend.Set(ctx, 5, "ages:20.08.2019", []byte(`[]`)))

	raw, ok, err := s.backend.Get(ctx, 5, "birthdays")
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`{"1":[]}`, string(raw))

	ttl, err := s.redis.Client.TTL(ctx, "census:reports:5").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.Require().NoError(s.backend.Delete(ctx, 5))
	_, ok, err = s.backend.Get(ctx, 5, "ages:20.08.2019")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisBackendSuite) TestReportCacheRoundTrip() {
	ctx := context.Background()
	c := cache.New(s.backend)
	loads := 0
	load := func(context.Context) ([]models.TownAgeStat, error) {
		loads++
		return []models.TownAgeStat{{Town: "Kerch", P50: 20, P75: 20, P99: 20}}, nil
	}
	day := models.NewDate(2019, time.August, 20)

	first, err := c.TownAges(ctx, 9, day, load)
	s.Require().NoError(err)
	second, err := c.TownAges(ctx, 9, day, load)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(1, loads)
}
