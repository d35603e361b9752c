package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	sessions map[int64]Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[int64]Session)}
}

func (s *memStore) Get(_ context.Context, userID int64) (Session, error) {
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *memStore) Create(_ context.Context, userID int64, username string, stage Stage) error {
	if _, ok := s.sessions[userID]; ok {
		return nil
	}
	s.sessions[userID] = Session{ID: userID, Username: username, Stage: stage}
	return nil
}

func (s *memStore) SetStage(_ context.Context, userID int64, stage Stage) error {
	sess := s.sessions[userID]
	sess.ID = userID
	sess.Stage = stage
	s.sessions[userID] = sess
	return nil
}

func (s *memStore) stage(userID int64) Stage {
	return s.sessions[userID].Stage
}

type sentMsg struct {
	UserID   int64
	Text     string
	Kind     MediaKind
	FileID   string
	Uploaded bool
	Keyboard Keyboard
}

type recordingSender struct {
	msgs    []sentMsg
	uploads int
	fail    error
}

func (r *recordingSender) SendText(_ context.Context, userID int64, text string, kb Keyboard) error {
	if r.fail != nil {
		return r.fail
	}
	r.msgs = append(r.msgs, sentMsg{UserID: userID, Text: text, Keyboard: kb})
	return nil
}

func (r *recordingSender) SendMedia(_ context.Context, userID int64, kind MediaKind, media Upload, caption string, kb Keyboard) (string, error) {
	if r.fail != nil {
		return "", r.fail
	}
	id := media.FileID
	uploaded := false
	if id == "" {
		r.uploads++
		uploaded = true
		id = "file-" + media.Name
	}
	r.msgs = append(r.msgs, sentMsg{
		UserID:   userID,
		Text:     caption,
		Kind:     kind,
		FileID:   id,
		Uploaded: uploaded,
		Keyboard: kb,
	})
	return id, nil
}

type stubContent struct{}

func (stubContent) Text(stage Stage, suffix string) (string, error) {
	return fmt.Sprintf("text:%s:%s", stage, suffix), nil
}

func (stubContent) Asset(_ MediaKind, name string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("asset:" + name)), nil
}

func newTestEngine() (*Engine, *memStore, *recordingSender) {
	store := newMemStore()
	sender := &recordingSender{}
	engine := NewEngine(NewCatalog(), store, sender, stubContent{}, NewMediaCache())
	return engine, store, sender
}

func TestFreshUserBootstrap(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()

	require.NoError(t, engine.HandleMessage(ctx, 1, "alice", "/start"))

	require.Equal(t, StageAfterStart, store.stage(1))
	require.Len(t, sender.msgs, 2)

	welcome := sender.msgs[0]
	require.Equal(t, "text:start:", welcome.Text)
	require.Equal(t, []string{"Да"}, welcome.Keyboard.Buttons)

	photo := sender.msgs[1]
	require.Equal(t, MediaPhoto, photo.Kind)
	require.True(t, photo.Uploaded)
	require.Empty(t, photo.Text)
}

func TestUnknownUserAnyTextBootstraps(t *testing.T) {
	engine, store, sender := newTestEngine()

	require.NoError(t, engine.HandleMessage(context.Background(), 2, "bob", "привет"))

	require.Equal(t, StageAfterStart, store.stage(2))
	require.Len(t, sender.msgs, 2)
}

func TestStartCommandResetsSession(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()
	store.sessions[3] = Session{ID: 3, Username: "carol", Stage: StageNight}

	require.NoError(t, engine.HandleMessage(ctx, 3, "carol", "/start"))

	require.Equal(t, StageAfterStart, store.stage(3))
	require.Equal(t, "carol", store.sessions[3].Username)
}

func TestLinearStageAdvances(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[4] = Session{ID: 4, Stage: StageCommon}

	// Garbled input never blocks progression on a non-quiz stage.
	require.NoError(t, engine.HandleMessage(ctx, 4, "", "qwerty"))

	require.Equal(t, StageRed, store.stage(4))
	require.Len(t, sender.msgs, 1)
	require.Equal(t, "text:common:", sender.msgs[0].Text)
}

func TestPromptWithMediaStage(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[5] = Session{ID: 5, Stage: StageRed}

	require.NoError(t, engine.HandleMessage(ctx, 5, "", "ок"))

	require.Equal(t, StageYellow, store.stage(5))
	require.Len(t, sender.msgs, 2)
	require.Equal(t, "text:red:1", sender.msgs[0].Text)
	require.Nil(t, sender.msgs[0].Keyboard.Buttons)

	photo := sender.msgs[1]
	require.Equal(t, MediaPhoto, photo.Kind)
	require.Equal(t, "text:red:2", photo.Text)
	require.NotEmpty(t, photo.Keyboard.Buttons)
}

func TestTwoPartStageClearsKeyboard(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[6] = Session{ID: 6, Stage: StageChooseName}

	require.NoError(t, engine.HandleMessage(ctx, 6, "", "да"))

	require.Equal(t, StageAfterName, store.stage(6))
	require.Len(t, sender.msgs, 2)
	require.False(t, sender.msgs[0].Keyboard.Remove)
	require.True(t, sender.msgs[1].Keyboard.Remove)
}

func TestQuizLagWrongAnswer(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[7] = Session{ID: 7, Stage: StageTestQ2}

	require.NoError(t, engine.HandleMessage(ctx, 7, "", "Мафия"))

	require.Equal(t, StageTestQ3, store.stage(7))
	require.Len(t, sender.msgs, 2)
	require.Equal(t, "text:test_q1:wrong", sender.msgs[0].Text)
	require.Equal(t, "text:test_q2:", sender.msgs[1].Text)
}

func TestQuizLagCorrectAnswer(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[8] = Session{ID: 8, Stage: StageTestQ2}

	require.NoError(t, engine.HandleMessage(ctx, 8, "", "Мирный житель"))

	require.Equal(t, StageTestQ3, store.stage(8))
	require.Len(t, sender.msgs, 1)
	require.Equal(t, "text:test_q2:", sender.msgs[0].Text)
}

func TestFirstQuizQuestionIsNeverGraded(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[9] = Session{ID: 9, Stage: StageTestQ1}

	require.NoError(t, engine.HandleMessage(ctx, 9, "", "что угодно"))

	require.Equal(t, StageTestQ2, store.stage(9))
	require.Len(t, sender.msgs, 1)
	require.Equal(t, "text:test_q1:", sender.msgs[0].Text)
}

func TestTerminalStageParksInMenu(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[10] = Session{ID: 10, Stage: StageEnd}

	require.NoError(t, engine.HandleMessage(ctx, 10, "", "Пока-пока! 😊"))

	require.Equal(t, StageMenu, store.stage(10))
	require.Len(t, sender.msgs, 1)
	require.Equal(t, engine.catalog.MenuLabels(), sender.msgs[0].Keyboard.Buttons)
}

func TestMenuInvalidSelection(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[11] = Session{ID: 11, Stage: StageMenu}

	require.NoError(t, engine.HandleMessage(ctx, 11, "", "абракадабра"))

	require.Equal(t, StageMenu, store.stage(11))
	require.Len(t, sender.msgs, 1)
	require.Equal(t, invalidSelectionText, sender.msgs[0].Text)
	require.Equal(t, engine.catalog.MenuLabels(), sender.msgs[0].Keyboard.Buttons)
}

func TestMenuSelectionRendersTarget(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[12] = Session{ID: 12, Stage: StageMenu}

	require.NoError(t, engine.HandleMessage(ctx, 12, "", "Голосование"))

	// The voting stage rendered in full and the session moved past it.
	require.Equal(t, StageFire, store.stage(12))
	require.Len(t, sender.msgs, 2)
	require.Equal(t, "text:voting:1", sender.msgs[0].Text)
	require.Equal(t, MediaVideo, sender.msgs[1].Kind)
	require.Equal(t, "text:voting:2", sender.msgs[1].Text)
}

func TestMediaUploadedOnceAcrossUsers(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[13] = Session{ID: 13, Stage: StageRed}
	store.sessions[14] = Session{ID: 14, Stage: StageRed}

	require.NoError(t, engine.HandleMessage(ctx, 13, "", "ок"))
	require.NoError(t, engine.HandleMessage(ctx, 14, "", "ок"))

	require.Equal(t, 1, sender.uploads)

	var media []sentMsg
	for _, m := range sender.msgs {
		if m.Kind == MediaPhoto {
			media = append(media, m)
		}
	}
	require.Len(t, media, 2)
	require.True(t, media[0].Uploaded)
	require.False(t, media[1].Uploaded)
	require.Equal(t, media[0].FileID, media[1].FileID)
}

func TestSenderFailureLeavesStageUntouched(t *testing.T) {
	engine, store, sender := newTestEngine()
	ctx := context.Background()
	store.sessions[15] = Session{ID: 15, Stage: StageCommon}
	sender.fail = errors.New("network down")

	err := engine.HandleMessage(ctx, 15, "", "ок")
	require.Error(t, err)
	require.Equal(t, StageCommon, store.stage(15))
}
