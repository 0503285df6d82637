package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/extraction"
	extractionUC "task-intake-assistant/internal/extraction/usecase"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task"
	"task-intake-assistant/pkg/datemath"
	"task-intake-assistant/pkg/llmprovider"
	"task-intake-assistant/pkg/log"
)

// Thursday 2026-10-15 10:00 JST.
func fixedNow() time.Time {
	return time.Date(2026, 10, 15, 10, 0, 0, 0, datemath.JST)
}

type fakeProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int

	// When set, each call reports on entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	reply := f.replies[len(f.replies)-1]
	if n <= len(f.replies) {
		reply = f.replies[n-1]
	}
	return &llmprovider.Response{Content: reply, ProviderName: "fake"}, nil
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-1" }

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTasks struct {
	created []task.CreateInput
	err     error
}

func (f *fakeTasks) Create(ctx context.Context, sc model.Scope, in task.CreateInput) (model.Task, error) {
	if f.err != nil {
		return model.Task{}, f.err
	}
	f.created = append(f.created, in)
	return model.Task{ID: "task-1", UserID: sc.UserID, Title: in.Title, Category: in.Category, Status: model.TaskStatusInbox}, nil
}

func (f *fakeTasks) List(ctx context.Context, sc model.Scope, in task.ListInput) ([]model.Task, error) {
	return nil, nil
}

func (f *fakeTasks) UpdateStatus(ctx context.Context, sc model.Scope, in task.UpdateStatusInput) (model.Task, error) {
	return model.Task{}, nil
}

func (f *fakeTasks) Schedule(ctx context.Context, sc model.Scope, in task.ScheduleInput) (model.Task, error) {
	return model.Task{}, nil
}

var alice = model.Scope{UserID: "alice", Source: model.SourceHTTP}

func newTestUseCase(t *testing.T, p llmprovider.Provider, tasks task.UseCase, cfg config.ConversationConfig) conversation.UseCase {
	t.Helper()
	prompts, err := extractionUC.LoadPrompts("")
	require.NoError(t, err)
	ex := extractionUC.New(log.NewNop(), p, prompts, extractionUC.WithClock(fixedNow))
	return New(log.NewNop(), ex, tasks, cfg, WithClock(fixedNow))
}

func send(t *testing.T, uc conversation.UseCase, id, text string) conversation.TurnOutput {
	t.Helper()
	out, err := uc.SendMessage(context.Background(), alice, conversation.SendMessageInput{SessionID: id, Text: text})
	require.NoError(t, err)
	return out
}

func lastMessage(out conversation.TurnOutput) conversation.Message {
	return out.NewMessages[len(out.NewMessages)-1]
}

func TestStart(t *testing.T) {
	uc := newTestUseCase(t, &fakeProvider{}, &fakeTasks{}, config.ConversationConfig{})

	snap, err := uc.Start(context.Background(), alice)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, conversation.PhaseInitial, snap.Phase)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, conversation.RoleAssistant, snap.Messages[0].Role)
}

func TestScenarioA_ConfirmingInOneTurn(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"買い物に行く","category":"shopping","scheduledDate":null,"scheduledTime":null,"deadline":null,"durationMinutes":null}`}}
	tasks := &fakeTasks{}
	uc := newTestUseCase(t, p, tasks, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)

	out := send(t, uc, snap.SessionID, "買い物に行く")
	assert.Equal(t, conversation.PhaseConfirming, out.Snapshot.Phase)
	require.Len(t, out.NewMessages, 2)
	assert.Equal(t, conversation.RoleUser, out.NewMessages[0].Role)
	confirm := lastMessage(out)
	assert.Equal(t, conversation.KindConfirmation, confirm.Kind)
	assert.Equal(t, []string{"登録する", "登録しない"}, confirm.Options)
	assert.Contains(t, confirm.Content, "買い物に行く")
	assert.Contains(t, confirm.Content, "カテゴリー: 買い物")

	done := send(t, uc, snap.SessionID, "登録する")
	assert.Equal(t, conversation.PhaseCompleted, done.Snapshot.Phase)
	require.NotNil(t, done.Snapshot.Task)
	assert.True(t, done.Snapshot.TaskInfo.IsEmpty(), "state is cleared after registration")
	assert.Equal(t, conversation.KindComplete, lastMessage(done).Kind)

	require.Len(t, tasks.created, 1)
	assert.Equal(t, "買い物に行く", tasks.created[0].Title)
	assert.Equal(t, model.CategoryShopping, tasks.created[0].Category)
	assert.Equal(t, "買い物に行く", tasks.created[0].RawInput)
	assert.Empty(t, tasks.created[0].ScheduledAt)

	_, err := uc.SendMessage(context.Background(), alice, conversation.SendMessageInput{SessionID: snap.SessionID, Text: "もう一つ"})
	assert.ErrorIs(t, err, conversation.ErrSessionClosed)
}

func TestScenarioB_CategoryChipWithoutModelCall(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"タスク","category":null}`}}
	uc := newTestUseCase(t, p, &fakeTasks{}, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)

	out := send(t, uc, snap.SessionID, "タスク")
	assert.Equal(t, conversation.PhaseCollecting, out.Snapshot.Phase)
	assert.Equal(t, model.FieldCategory, out.Snapshot.CurrentField)
	q := lastMessage(out)
	assert.Equal(t, conversation.KindQuestion, q.Kind)
	assert.Equal(t, model.FieldCategory, q.Field)
	assert.Equal(t, []string{"買い物", "返信", "仕事", "個人", "その他", "スキップ", "このまま登録"}, q.Options)

	out = send(t, uc, snap.SessionID, "仕事")
	assert.Equal(t, 1, p.Calls())
	assert.Equal(t, extraction.SourceResolver, out.Source)
	assert.Equal(t, model.CategoryWork, out.Snapshot.TaskInfo.Category.OrZero())
	assert.Equal(t, conversation.PhaseConfirming, out.Snapshot.Phase)
}

func TestScenarioC_FallbackDoesNotFailTheTurn(t *testing.T) {
	p := &fakeProvider{err: errors.New("503 from provider")}
	uc := newTestUseCase(t, p, &fakeTasks{}, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)

	out := send(t, uc, snap.SessionID, "請求書を送る")
	require.NotNil(t, out.Warning)
	assert.Equal(t, "LLM_API_ERROR", out.Warning.Code)
	assert.Equal(t, extraction.SourceFallback, out.Source)
	assert.Equal(t, "請求書を送る", out.Snapshot.TaskInfo.Title.OrZero())
	assert.Equal(t, model.CategoryPersonal, out.Snapshot.TaskInfo.Category.OrZero())
	assert.Equal(t, conversation.PhaseConfirming, out.Snapshot.Phase)

	kinds := []conversation.MessageKind{}
	for _, m := range out.NewMessages {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []conversation.MessageKind{conversation.KindText, conversation.KindWarning, conversation.KindConfirmation}, kinds)
}

func TestScenarioD_DeclineClearsState(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"タスク","category":null}`}}
	uc := newTestUseCase(t, p, &fakeTasks{}, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)
	send(t, uc, snap.SessionID, "タスク")

	out := send(t, uc, snap.SessionID, "登録しない")
	assert.Equal(t, conversation.PhaseCancelled, out.Snapshot.Phase)
	assert.True(t, out.Snapshot.TaskInfo.IsEmpty())
	assert.Equal(t, conversation.KindCancelled, lastMessage(out).Kind)
	assert.Equal(t, 1, p.Calls())

	_, err := uc.SendMessage(context.Background(), alice, conversation.SendMessageInput{SessionID: snap.SessionID, Text: "x"})
	assert.ErrorIs(t, err, conversation.ErrSessionClosed)
}

func TestSkipRequiredFieldAsksAgain(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"タスク","category":null}`}}
	uc := newTestUseCase(t, p, &fakeTasks{}, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)
	send(t, uc, snap.SessionID, "タスク")

	out := send(t, uc, snap.SessionID, "スキップ")
	assert.Equal(t, conversation.PhaseCollecting, out.Snapshot.Phase)
	assert.Equal(t, model.FieldCategory, lastMessage(out).Field)
}

func TestOptionalFieldsAreAskedAfterRequired(t *testing.T) {
	// A placeholder title is asked for before anything else.
	p := &fakeProvider{replies: []string{
		`{"title":"タイトル未定","category":"work","deadline":null,"scheduledDate":null,"scheduledTime":null,"durationMinutes":null}`,
		`{"title":"週報を書く"}`,
	}}
	uc := newTestUseCase(t, p, &fakeTasks{}, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)

	out := send(t, uc, snap.SessionID, "あれをやる")
	assert.Equal(t, model.FieldTitle, out.Snapshot.CurrentField)

	out = send(t, uc, snap.SessionID, "週報を書く")
	assert.Equal(t, "週報を書く", out.Snapshot.TaskInfo.Title.OrZero())
	assert.Equal(t, conversation.PhaseConfirming, out.Snapshot.Phase)
}

func TestConfirmWhenIncompleteStaysCollecting(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"タスク","category":null}`}}
	tasks := &fakeTasks{}
	uc := newTestUseCase(t, p, tasks, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)
	send(t, uc, snap.SessionID, "タスク")

	for _, token := range []string{"登録する", "このまま登録"} {
		out := send(t, uc, snap.SessionID, token)
		require.NotNil(t, out.Warning, token)
		assert.Equal(t, "MISSING_REQUIRED_FIELD", out.Warning.Code)
		assert.Equal(t, conversation.PhaseCollecting, out.Snapshot.Phase)
		assert.Equal(t, model.FieldCategory, lastMessage(out).Field)
	}
	assert.Empty(t, tasks.created)
}

func TestRegisterAnywayFromConfirming(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"歯医者","category":"personal"}`}}
	tasks := &fakeTasks{}
	uc := newTestUseCase(t, p, tasks, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)
	send(t, uc, snap.SessionID, "歯医者")

	out := send(t, uc, snap.SessionID, "このまま登録")
	assert.Equal(t, conversation.PhaseCompleted, out.Snapshot.Phase)
	require.Len(t, tasks.created, 1)
	assert.Equal(t, "歯医者", tasks.created[0].Title)
}

func TestPersistenceFailureKeepsState(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"牛乳を買う","category":"shopping"}`}}
	tasks := &fakeTasks{err: errors.New("disk full")}
	uc := newTestUseCase(t, p, tasks, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)
	send(t, uc, snap.SessionID, "牛乳を買う")

	out, err := uc.SendMessage(context.Background(), alice, conversation.SendMessageInput{SessionID: snap.SessionID, Text: "登録する"})
	assert.ErrorIs(t, err, conversation.ErrPersistence)
	assert.Equal(t, conversation.KindError, lastMessage(out).Kind)

	got, err := uc.Get(context.Background(), alice, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, conversation.PhaseConfirming, got.Phase)
	assert.Equal(t, "牛乳を買う", got.TaskInfo.Title.OrZero())

	tasks.err = nil
	out = send(t, uc, snap.SessionID, "登録する")
	assert.Equal(t, conversation.PhaseCompleted, out.Snapshot.Phase)
}

func TestCancelDuringExtractionDiscardsResult(t *testing.T) {
	p := &fakeProvider{
		replies: []string{`{"title":"会議","category":"work"}`},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	uc := newTestUseCase(t, p, &fakeTasks{}, config.ConversationConfig{})
	snap, _ := uc.Start(context.Background(), alice)

	errc := make(chan error, 1)
	go func() {
		_, err := uc.SendMessage(context.Background(), alice, conversation.SendMessageInput{SessionID: snap.SessionID, Text: "会議"})
		errc <- err
	}()

	<-p.entered
	cancelled, err := uc.Cancel(context.Background(), alice, snap.SessionID)
	require.NoError(t, err, "cancel does not wait for the model")
	assert.Equal(t, conversation.PhaseCancelled, cancelled.Phase)
	close(p.release)

	assert.ErrorIs(t, <-errc, conversation.ErrTurnSuperseded)
	got, err := uc.Get(context.Background(), alice, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, conversation.PhaseCancelled, got.Phase)
	assert.True(t, got.TaskInfo.IsEmpty())
}

func TestResetAndCancelLifecycle(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"title":"会議","category":"work"}`}}
	uc := newTestUseCase(t, p, &fakeTasks{}, config.ConversationConfig{})
	ctx := context.Background()
	snap, _ := uc.Start(ctx, alice)
	send(t, uc, snap.SessionID, "会議")
	send(t, uc, snap.SessionID, "登録する")

	_, err := uc.Cancel(ctx, alice, snap.SessionID)
	assert.ErrorIs(t, err, conversation.ErrSessionClosed)

	reset, err := uc.Reset(ctx, alice, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, snap.SessionID, reset.SessionID)
	assert.Equal(t, conversation.PhaseInitial, reset.Phase)
	assert.Len(t, reset.Messages, 1)
	assert.Nil(t, reset.Task)

	c1, err := uc.Cancel(ctx, alice, snap.SessionID)
	require.NoError(t, err)
	c2, err := uc.Cancel(ctx, alice, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, len(c1.Messages), len(c2.Messages), "cancel is idempotent")
}

func TestSessionsAreOwnedAndExpire(t *testing.T) {
	uc := newTestUseCase(t, &fakeProvider{}, &fakeTasks{}, config.ConversationConfig{SessionTTL: 50 * time.Millisecond})
	ctx := context.Background()
	snap, _ := uc.Start(ctx, alice)

	_, err := uc.Get(ctx, model.Scope{UserID: "mallory"}, snap.SessionID)
	assert.ErrorIs(t, err, conversation.ErrSessionNotFound)

	_, err = uc.SendMessage(ctx, alice, conversation.SendMessageInput{SessionID: snap.SessionID, Text: "  "})
	assert.ErrorIs(t, err, conversation.ErrEmptyMessage)

	time.Sleep(120 * time.Millisecond)
	_, err = uc.Get(ctx, alice, snap.SessionID)
	assert.ErrorIs(t, err, conversation.ErrSessionNotFound)
}
