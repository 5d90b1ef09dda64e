package clanqueue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	clanservice "github.com/Black-And-White-Club/clan-service/app/modules/clan/application"
	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	"github.com/Black-And-White-Club/clan-service/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name   string
		delete func(ctx context.Context, clanID int64) (clanservice.ClanIDResult, error)
		want   string
	}{
		{
			name: "deleted",
			want: "Clan 12 has been deleted.",
		},
		{
			name: "not found",
			delete: func(context.Context, int64) (clanservice.ClanIDResult, error) {
				return failed(clandomain.CodeClanNotFound), nil
			},
			want: "Clan 12 not found.",
		},
		{
			name: "unexpected failure",
			delete: func(context.Context, int64) (clanservice.ClanIDResult, error) {
				return failed(clandomain.CodeUserNotFound), nil
			},
			want: "Failed to delete clan 12. Unexpected result: UserNotFound",
		},
		{
			name: "storage error",
			delete: func(context.Context, int64) (clanservice.ClanIDResult, error) {
				return clanservice.ClanIDResult{}, errors.New("connection refused")
			},
			want: "Failed to delete clan 12. Unexpected result: UnknownError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{DeleteClanByAdminFunc: tt.delete}
			replier := &FakeReplier{}
			executor := NewExecutor(svc, replier, discardLogger())

			err := executor.Execute(context.Background(), AdminDeleteJob{ClanID: 12, CallerID: 3, CorrelationID: "c-1"})
			require.NoError(t, err)

			assert.Equal(t, []string{"DeleteClanByAdmin"}, svc.Trace())
			assert.Equal(t, []AdminReply{{CallerID: 3, Text: tt.want, CorrelationID: "c-1"}}, replier.Replies())
		})
	}
}

func TestExecutor_ReplyFailure(t *testing.T) {
	replier := &FakeReplier{ReplyFunc: func(context.Context, AdminReply) error { return errors.New("closed") }}
	executor := NewExecutor(&FakeService{}, replier, discardLogger())

	err := executor.Execute(context.Background(), AdminDeleteJob{ClanID: 1, CallerID: 1})
	assert.ErrorContains(t, err, "failed to send admin reply")
}

func TestInlineService(t *testing.T) {
	release := make(chan struct{})
	svc := &FakeService{DeleteClanByAdminFunc: func(_ context.Context, clanID int64) (clanservice.ClanIDResult, error) {
		<-release
		return clanservice.ClanIDResult{Success: &clanID}, nil
	}}
	replier := &FakeReplier{}
	dispatcher := NewInlineService(NewExecutor(svc, replier, discardLogger()), discardLogger(), observability.NewNoop())
	require.NoError(t, dispatcher.Start(context.Background()))

	require.NoError(t, dispatcher.DispatchAdminDelete(context.Background(), AdminDeleteJob{ClanID: 5, CallerID: 9}))
	assert.Empty(t, replier.Replies(), "dispatch must not wait for the job")

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Stop(ctx))

	assert.Equal(t, []AdminReply{{CallerID: 9, Text: "Clan 5 has been deleted."}}, replier.Replies())
	assert.Error(t, dispatcher.DispatchAdminDelete(context.Background(), AdminDeleteJob{ClanID: 6}))
}

func TestAdminDeleteWorker_Work(t *testing.T) {
	replier := &FakeReplier{}
	worker := NewAdminDeleteWorker(NewExecutor(&FakeService{}, replier, discardLogger()))

	err := worker.Work(context.Background(), &river.Job[AdminDeleteJob]{Args: AdminDeleteJob{ClanID: 4, CallerID: 2}})
	require.NoError(t, err)
	assert.Equal(t, "Clan 4 has been deleted.", replier.Replies()[0].Text)
	assert.Equal(t, "clan_admin_delete", AdminDeleteJob{}.Kind())
}

func TestPublisherReplier(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubsub.Close() })

	messages, err := pubsub.Subscribe(context.Background(), "clan.admin.replies")
	require.NoError(t, err)

	replier := NewPublisherReplier(pubsub, "clan.admin.replies")
	require.NoError(t, replier.Reply(context.Background(), AdminReply{CallerID: 8, Text: "Invalid clan id.", CorrelationID: "abc"}))

	select {
	case msg := <-messages:
		msg.Ack()
		var got AdminReply
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, AdminReply{CallerID: 8, Text: "Invalid clan id.", CorrelationID: "abc"}, got)
		assert.Equal(t, "8", msg.Metadata.Get("caller_id"))
	case <-time.After(5 * time.Second):
		t.Fatal("reply was not published")
	}
}
