package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestOutbox(client redis.UniversalClient) *Outbox {
	o := New(client, time.Minute)
	o.now = func() time.Time { return fixedNow }
	return o
}

func TestFeedNotify(t *testing.T) {
	ctx := context.Background()
	mockRedis := new(mocks.MockRedisClient)
	mockPipe := new(mocks.MockTxPipeline)

	var pushed Event

	mockRedis.On("TxPipeline").Return(mockPipe)
	mockPipe.On("RPush", ctx, "outbox:session-1", mock.MatchedBy(func(values []interface{}) bool {
		if len(values) != 1 {
			return false
		}
		data, ok := values[0].([]byte)
		return ok && json.Unmarshal(data, &pushed) == nil
	})).Return(redis.NewIntResult(1, nil))
	mockPipe.On("Expire", ctx, "outbox:session-1", time.Minute).Return(redis.NewBoolResult(true, nil))
	mockPipe.On("Exec", ctx).Return([]redis.Cmder{}, nil)

	toast := domain.Toast{Title: "Success", Message: "Movie data copied successfully", Variant: domain.VariantSuccess}

	err := newTestOutbox(mockRedis).For("session-1").Notify(ctx, toast)
	require.NoError(t, err)

	want := Event{Kind: EventToast, Toast: &toast, At: fixedNow}
	if diff := cmp.Diff(want, pushed); diff != "" {
		t.Errorf("pushed event mismatch (-want +got):\n%s", diff)
	}

	mockRedis.AssertExpectations(t)
	mockPipe.AssertExpectations(t)
}

func TestFeedNotifyExecFailure(t *testing.T) {
	ctx := context.Background()
	mockRedis := new(mocks.MockRedisClient)
	mockPipe := new(mocks.MockTxPipeline)

	mockRedis.On("TxPipeline").Return(mockPipe)
	mockPipe.On("RPush", ctx, "outbox:session-1", mock.Anything).Return(redis.NewIntResult(0, nil))
	mockPipe.On("Expire", ctx, "outbox:session-1", time.Minute).Return(redis.NewBoolResult(false, nil))
	mockPipe.On("Exec", ctx).Return(nil, mocks.MockRedisError{Msg: "READONLY"})

	err := newTestOutbox(mockRedis).For("session-1").Navigate(ctx, domain.NewRecordPageRef("m1"))
	assert.ErrorContains(t, err, "READONLY")
}

func TestFeedDrain(t *testing.T) {
	ctx := context.Background()
	mockRedis := new(mocks.MockRedisClient)
	mockPipe := new(mocks.MockTxPipeline)

	toast := domain.Toast{Title: "Info", Message: "Data already synced from TheMovieDB", Variant: domain.VariantInfo}
	page := domain.NewRecordPageRef("m1")

	first, _ := json.Marshal(Event{Kind: EventToast, Toast: &toast, At: fixedNow})
	second, _ := json.Marshal(Event{Kind: EventNavigate, Page: &page, At: fixedNow})

	mockRedis.On("TxPipeline").Return(mockPipe)
	mockPipe.On("LRange", ctx, "outbox:session-1", int64(0), int64(-1)).
		Return(redis.NewStringSliceResult([]string{string(first), string(second)}, nil))
	mockPipe.On("Del", ctx, []string{"outbox:session-1"}).Return(redis.NewIntResult(1, nil))
	mockPipe.On("Exec", ctx).Return([]redis.Cmder{}, nil)

	got, err := newTestOutbox(mockRedis).For("session-1").Drain(ctx)
	require.NoError(t, err)

	want := []Event{
		{Kind: EventToast, Toast: &toast, At: fixedNow},
		{Kind: EventNavigate, Page: &page, At: fixedNow},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Drain() mismatch (-want +got):\n%s", diff)
	}

	mockPipe.AssertExpectations(t)
}

type OutboxSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)

	s.client = redis.NewClient(opts)
}

func (s *OutboxSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *OutboxSuite) TestRoundTrip() {
	ctx := context.Background()
	o := New(s.client, time.Minute)

	feed := o.For("session-a")
	other := o.For("session-b")

	s.Require().NoError(feed.Notify(ctx, domain.Toast{Title: "Success", Message: "2 movies imported successfully", Variant: domain.VariantSuccess}))
	s.Require().NoError(feed.Navigate(ctx, domain.NewRecordPageRef("m1")))
	s.Require().NoError(other.Notify(ctx, domain.Toast{Title: "Error", Message: "Error updating record", Variant: domain.VariantError}))

	ttl, err := s.client.TTL(ctx, "outbox:session-a").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	events, err := feed.Drain(ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(EventToast, events[0].Kind)
	s.Equal("2 movies imported successfully", events[0].Toast.Message)
	s.Equal(EventNavigate, events[1].Kind)
	s.Equal("m1", events[1].Page.RecordID)

	events, err = feed.Drain(ctx)
	s.Require().NoError(err)
	s.Empty(events)

	events, err = other.Drain(ctx)
	s.Require().NoError(err)
	s.Len(events, 1)
}
