package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task"
)

type fakeConversation struct {
	starts int
	sent   []conversation.SendMessageInput
	// replies are returned by SendMessage in order; the last one repeats.
	replies []fakeTurn
	resets  int
	cancels int
}

type fakeTurn struct {
	out conversation.TurnOutput
	err error
}

func (f *fakeConversation) Start(ctx context.Context, sc model.Scope) (conversation.Snapshot, error) {
	f.starts++
	return conversation.Snapshot{
		SessionID: fmt.Sprintf("s-%d", f.starts),
		State:     conversation.State{Phase: conversation.PhaseInitial},
		Messages: []conversation.Message{
			{Role: conversation.RoleAssistant, Kind: conversation.KindText, Content: "登録したいタスクを入力してください。"},
		},
	}, nil
}

func (f *fakeConversation) SendMessage(ctx context.Context, sc model.Scope, in conversation.SendMessageInput) (conversation.TurnOutput, error) {
	f.sent = append(f.sent, in)
	if len(f.replies) == 0 {
		return conversation.TurnOutput{Snapshot: conversation.Snapshot{SessionID: in.SessionID}}, nil
	}
	r := f.replies[len(f.replies)-1]
	if len(f.sent) <= len(f.replies) {
		r = f.replies[len(f.sent)-1]
	}
	return r.out, r.err
}

func (f *fakeConversation) Cancel(ctx context.Context, sc model.Scope, id string) (conversation.Snapshot, error) {
	f.cancels++
	return conversation.Snapshot{
		SessionID: id,
		State:     conversation.State{Phase: conversation.PhaseCancelled},
		Messages:  []conversation.Message{{Role: conversation.RoleSystem, Kind: conversation.KindCancelled, Content: "キャンセルしました。"}},
	}, nil
}

func (f *fakeConversation) Reset(ctx context.Context, sc model.Scope, id string) (conversation.Snapshot, error) {
	f.resets++
	return conversation.Snapshot{
		SessionID: id,
		State:     conversation.State{Phase: conversation.PhaseInitial},
		Messages:  []conversation.Message{{Role: conversation.RoleAssistant, Kind: conversation.KindText, Content: "最初からやり直します。"}},
	}, nil
}

func (f *fakeConversation) Get(ctx context.Context, sc model.Scope, id string) (conversation.Snapshot, error) {
	return conversation.Snapshot{SessionID: id}, nil
}

type fakeTasks struct {
	tasks     []model.Task
	listInput task.ListInput
	updated   []task.UpdateStatusInput
	scheduled []task.ScheduleInput
}

func (f *fakeTasks) Create(ctx context.Context, sc model.Scope, in task.CreateInput) (model.Task, error) {
	return model.Task{}, nil
}

func (f *fakeTasks) List(ctx context.Context, sc model.Scope, in task.ListInput) ([]model.Task, error) {
	f.listInput = in
	return f.tasks, nil
}

func (f *fakeTasks) UpdateStatus(ctx context.Context, sc model.Scope, in task.UpdateStatusInput) (model.Task, error) {
	f.updated = append(f.updated, in)
	return model.Task{ID: in.ID, Title: "牛乳を買う", Status: in.Status}, nil
}

func (f *fakeTasks) Schedule(ctx context.Context, sc model.Scope, in task.ScheduleInput) (model.Task, error) {
	f.scheduled = append(f.scheduled, in)
	return model.Task{ID: in.ID, Title: "牛乳を買う", Status: model.TaskStatusScheduled, ScheduledAt: "2026-10-16T14:00:00+09:00"}, nil
}

func runCLI(t *testing.T, conv conversation.UseCase, tasks task.UseCase, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &App{
		Conversations: conv,
		Tasks:         tasks,
		Scope:         model.Scope{UserID: "u1", Source: model.SourceCLI},
		In:            strings.NewReader(input),
		Out:           &out,
	}
	root := NewRootCmd(app)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func question(options ...string) fakeTurn {
	return fakeTurn{out: conversation.TurnOutput{
		Snapshot: conversation.Snapshot{SessionID: "s-1", State: conversation.State{Phase: conversation.PhaseCollecting}},
		NewMessages: []conversation.Message{
			{Role: conversation.RoleUser, Kind: conversation.KindText, Content: "牛乳を買う"},
			{Role: conversation.RoleAssistant, Kind: conversation.KindQuestion, Content: "カテゴリーを選んでください。", Options: options},
		},
	}}
}

func TestChat_NumberPicksOption(t *testing.T) {
	conv := &fakeConversation{replies: []fakeTurn{question("買い物", "返信", "仕事")}}

	out, err := runCLI(t, conv, &fakeTasks{}, "牛乳を買う\n1\n:q\n", "chat")
	require.NoError(t, err)

	require.Len(t, conv.sent, 2)
	assert.Equal(t, "牛乳を買う", conv.sent[0].Text)
	assert.Equal(t, "買い物", conv.sent[1].Text)
	assert.Equal(t, "s-1", conv.sent[1].SessionID)
	assert.Contains(t, out, "[1] 買い物")
	assert.NotContains(t, out, "\n牛乳を買う\n", "user lines are not echoed")
}

func TestChat_OutOfRangeNumberIsSentAsText(t *testing.T) {
	conv := &fakeConversation{replies: []fakeTurn{question("買い物")}}

	_, err := runCLI(t, conv, &fakeTasks{}, "牛乳\n5\n", "chat")
	require.NoError(t, err)
	require.Len(t, conv.sent, 2)
	assert.Equal(t, "5", conv.sent[1].Text)
}

func TestChat_TerminalPhaseStartsNewSession(t *testing.T) {
	conv := &fakeConversation{replies: []fakeTurn{{out: conversation.TurnOutput{
		Snapshot: conversation.Snapshot{SessionID: "s-1", State: conversation.State{Phase: conversation.PhaseCompleted}},
		NewMessages: []conversation.Message{
			{Role: conversation.RoleAssistant, Kind: conversation.KindComplete, Content: "タスクを登録しました。"},
		},
	}}}}

	out, err := runCLI(t, conv, &fakeTasks{}, "登録する\n", "chat")
	require.NoError(t, err)
	assert.Equal(t, 2, conv.starts)
	assert.Contains(t, out, "✓ タスクを登録しました。")
}

func TestChat_ClosedSessionIsRestarted(t *testing.T) {
	conv := &fakeConversation{replies: []fakeTurn{
		{err: conversation.ErrSessionClosed},
		question("買い物"),
	}}

	_, err := runCLI(t, conv, &fakeTasks{}, "牛乳\n牛乳\n", "chat")
	require.NoError(t, err)
	assert.Equal(t, 2, conv.starts)
	require.Len(t, conv.sent, 2)
	assert.Equal(t, "s-2", conv.sent[1].SessionID)
}

func TestChat_LLMFlagsArePassed(t *testing.T) {
	conv := &fakeConversation{}

	_, err := runCLI(t, conv, &fakeTasks{}, "牛乳\n", "chat", "--provider", "openai", "--model", "gpt-4o-mini", "--api-key", "sk-test")
	require.NoError(t, err)
	require.Len(t, conv.sent, 1)
	assert.Equal(t, "openai", conv.sent[0].LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", conv.sent[0].LLM.Model)
	assert.Equal(t, "sk-test", conv.sent[0].LLM.APIKey)
}

func TestChat_CancelAndReset(t *testing.T) {
	conv := &fakeConversation{}

	out, err := runCLI(t, conv, &fakeTasks{}, ":reset\n:cancel\n:q\n", "chat")
	require.NoError(t, err)
	assert.Equal(t, 1, conv.resets)
	assert.Equal(t, 1, conv.cancels)
	assert.Equal(t, 2, conv.starts, "cancel opens a fresh session")
	assert.Contains(t, out, "最初からやり直します。")
	assert.Contains(t, out, "キャンセルしました。")
}

func TestTasks_List(t *testing.T) {
	tasks := &fakeTasks{tasks: []model.Task{
		{
			ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
			Title:       "牛乳を買う",
			Category:    model.CategoryShopping,
			Status:      model.TaskStatusScheduled,
			ScheduledAt: "2026-10-16T14:00:00+09:00",
		},
	}}

	out, err := runCLI(t, &fakeConversation{}, tasks, "", "tasks", "--status", "scheduled")
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusScheduled, tasks.listInput.Status)
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "0f8fad5b-d9cb")
	assert.Contains(t, out, "牛乳を買う")
	assert.Contains(t, out, "買い物")
	assert.Contains(t, out, "予定済み")
	assert.Contains(t, out, "10/16 14:00")
}

func TestTasks_ListEmpty(t *testing.T) {
	out, err := runCLI(t, &fakeConversation{}, &fakeTasks{}, "", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "タスクはありません。")
}

func TestTasks_DoneAndArchive(t *testing.T) {
	tasks := &fakeTasks{}

	_, err := runCLI(t, &fakeConversation{}, tasks, "", "tasks", "done", "t1")
	require.NoError(t, err)
	_, err = runCLI(t, &fakeConversation{}, tasks, "", "tasks", "archive", "t2")
	require.NoError(t, err)

	assert.Equal(t, []task.UpdateStatusInput{
		{ID: "t1", Status: model.TaskStatusCompleted},
		{ID: "t2", Status: model.TaskStatusArchived},
	}, tasks.updated)
}

func TestTasks_Schedule(t *testing.T) {
	tasks := &fakeTasks{}

	out, err := runCLI(t, &fakeConversation{}, tasks, "", "tasks", "schedule", "t1", "2026-10-16T14:00")
	require.NoError(t, err)
	assert.Equal(t, []task.ScheduleInput{{ID: "t1", ScheduledAt: "2026-10-16T14:00"}}, tasks.scheduled)
	assert.Contains(t, out, "10/16 14:00")
}

func TestCalendarAuth_RequiresCredentials(t *testing.T) {
	_, err := runCLI(t, &fakeConversation{}, &fakeTasks{}, "", "calendar-auth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials_path")
}

func TestRenderTable_AlignsFullWidth(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"買い物", "x"}, {"ab", "y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	// "買い物" is six columns wide, so "x" and "y" start at the same column.
	assert.Equal(t, strings.Index(lines[3], "y"), len("ab")+6)
	assert.Equal(t, "買い物"+"  "+"x", lines[2])
}
