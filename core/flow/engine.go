package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"mafiabot/core/logger"
)

const (
	startCommand = "/start"

	invalidSelectionText = "Не понял 🤔 Выбери раздел на клавиатуре 👇"
	// wrongSuffix names the corrective text of a mis-answered quiz stage,
	// e.g. test_q1wrong.txt.
	wrongSuffix = "wrong"
)

// Engine owns all dispatch and transition logic of the walkthrough. It holds
// no cross-user state besides the media cache; collaborator calls are plain
// blocking calls and their failures propagate to the caller.
type Engine struct {
	catalog *Catalog
	store   SessionStore
	sender  Sender
	content ContentLoader
	media   *MediaCache
}

// NewEngine wires the engine with its collaborators. A nil cache gets replaced
// with a fresh one so every engine instance owns its own media state.
func NewEngine(catalog *Catalog, store SessionStore, sender Sender, content ContentLoader, media *MediaCache) *Engine {
	if media == nil {
		media = NewMediaCache()
	}
	return &Engine{
		catalog: catalog,
		store:   store,
		sender:  sender,
		content: content,
		media:   media,
	}
}

// HandleMessage processes one inbound message: it resolves the session,
// renders the active stage, and advances the stage pointer. The session is
// persisted only after every send succeeded, so a redelivered update re-runs
// the whole stage.
func (e *Engine) HandleMessage(ctx context.Context, userID int64, username, text string) error {
	start := time.Now()

	sess, err := e.store.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("load session: %w", err)
	}
	if errors.Is(err, ErrSessionNotFound) || text == startCommand {
		return e.bootstrap(ctx, userID, username)
	}

	if sess.Stage == StageMenu {
		return e.handleMenu(ctx, sess, username, text)
	}

	def, err := e.catalog.Definition(sess.Stage)
	if err != nil {
		return err
	}
	if err := e.gradePrevious(ctx, userID, sess.Stage, text); err != nil {
		return err
	}
	if err := e.render(ctx, userID, def); err != nil {
		return err
	}

	next := StageMenu
	if !def.Terminal {
		if next, err = e.catalog.Next(sess.Stage); err != nil {
			return err
		}
	}
	if err := e.store.SetStage(ctx, userID, next); err != nil {
		return fmt.Errorf("persist stage: %w", err)
	}

	logger.Debug(ctx, "flow", "stage.handled",
		slog.Int64("user_id", userID),
		slog.String("stage", string(sess.Stage)),
		slog.String("next", string(next)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// bootstrap (re)initializes a session: first contact or an explicit /start.
// Whatever the user typed is ignored on this branch.
func (e *Engine) bootstrap(ctx context.Context, userID int64, username string) error {
	if err := e.store.Create(ctx, userID, username, StageStart); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	def, err := e.catalog.Definition(StageStart)
	if err != nil {
		return err
	}
	if err := e.render(ctx, userID, def); err != nil {
		return err
	}
	next, err := e.catalog.Next(StageStart)
	if err != nil {
		return err
	}
	if err := e.store.SetStage(ctx, userID, next); err != nil {
		return fmt.Errorf("persist stage: %w", err)
	}
	logger.Info(ctx, "flow", "session.bootstrap",
		slog.Int64("user_id", userID),
		slog.String("username", username),
	)
	return nil
}

// handleMenu resolves a menu selection. A recognized label moves the session
// into the target stage and re-enters HandleMessage so the target renders in
// full before this call returns; anything else keeps the session parked in the
// menu and re-offers the labels.
func (e *Engine) handleMenu(ctx context.Context, sess Session, username, text string) error {
	target, ok := e.catalog.ResolveMenuLabel(text)
	if !ok {
		logger.Debug(ctx, "flow", "menu.miss",
			slog.Int64("user_id", sess.ID),
			slog.String("payload", text),
		)
		return e.sender.SendText(ctx, sess.ID, invalidSelectionText, Keyboard{Buttons: e.catalog.MenuLabels()})
	}
	if err := e.store.SetStage(ctx, sess.ID, target); err != nil {
		return fmt.Errorf("persist stage: %w", err)
	}
	logger.Debug(ctx, "flow", "menu.jump",
		slog.Int64("user_id", sess.ID),
		slog.String("stage", string(target)),
	)
	return e.HandleMessage(ctx, sess.ID, username, text)
}

// gradePrevious implements the lagged quiz check: the inbound text is the
// answer to the predecessor stage, graded while entering the current one. A
// mismatch only prepends the corrective text; it never blocks advancement.
func (e *Engine) gradePrevious(ctx context.Context, userID int64, current Stage, text string) error {
	prev, ok := e.catalog.prev(current)
	if !ok {
		return nil
	}
	def, err := e.catalog.Definition(prev)
	if err != nil {
		return err
	}
	if def.Answer == "" || text == def.Answer {
		return nil
	}
	correction, err := e.content.Text(prev, wrongSuffix)
	if err != nil {
		return fmt.Errorf("load correction for %s: %w", prev, err)
	}
	logger.Debug(ctx, "flow", "quiz.wrong",
		slog.Int64("user_id", userID),
		slog.String("stage", string(prev)),
	)
	return e.sender.SendText(ctx, userID, correction, Keyboard{})
}

func (e *Engine) render(ctx context.Context, userID int64, def Definition) error {
	for _, step := range def.Steps {
		kb := Keyboard{Buttons: step.Keyboard, Remove: step.RemoveKeyboard}
		if step.Media == MediaNone {
			text, err := e.content.Text(def.Stage, step.TextSuffix)
			if err != nil {
				return fmt.Errorf("load text for %s: %w", def.Stage, err)
			}
			if err := e.sender.SendText(ctx, userID, text, kb); err != nil {
				return fmt.Errorf("send %s: %w", def.Stage, err)
			}
			continue
		}
		if err := e.sendMedia(ctx, userID, def.Stage, step, kb); err != nil {
			return err
		}
	}
	return nil
}

// sendMedia delivers a media step, preferring the cached remote ID and caching
// the ID issued for a fresh upload.
func (e *Engine) sendMedia(ctx context.Context, userID int64, stage Stage, step Step, kb Keyboard) error {
	caption := ""
	if step.TextSuffix != "" {
		var err error
		if caption, err = e.content.Text(stage, step.TextSuffix); err != nil {
			return fmt.Errorf("load caption for %s: %w", stage, err)
		}
	}

	up := Upload{}
	if id, ok := e.media.Get(step.MediaFile); ok {
		up.FileID = id
	} else {
		rc, err := e.content.Asset(step.Media, step.MediaFile)
		if err != nil {
			return fmt.Errorf("load asset %s: %w", step.MediaFile, err)
		}
		defer rc.Close()
		up.Reader = rc
		up.Name = step.MediaFile
	}

	id, err := e.sender.SendMedia(ctx, userID, step.Media, up, caption, kb)
	if err != nil {
		return fmt.Errorf("send media %s: %w", step.MediaFile, err)
	}
	if up.FileID == "" && id != "" {
		e.media.Put(step.MediaFile, id)
		logger.Debug(ctx, "flow", "media.cached",
			slog.String("path", step.MediaFile),
		)
	}
	return nil
}
