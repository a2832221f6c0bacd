package course

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"elearning_app/logger"
)

var (
	ErrNotInQuiz      = errors.New("current step is not a quiz")
	ErrQuizInProgress = errors.New("quiz is not finished yet")
)

const snapshotTimeout = 2 * time.Second

type Options struct {
	Advance   AdvanceMode
	Scheduler Scheduler
	// Snapshots is optional; without it progress is not remembered.
	Snapshots SnapshotStore
	// SessionKey names the snapshot slot. A random one is used when empty.
	SessionKey string
	Logger     *logger.Logger
	// OnChange receives the new View after every transition, including
	// timed advances, in the order the transitions happened. It runs
	// without the session lock held and may call View, but must not send
	// events back into the session.
	OnChange func(View)
	Now      func() time.Time
}

// Session is one learner working through a course. All methods are safe to
// call from multiple goroutines; events are applied one at a time.
type Session struct {
	mu         sync.Mutex
	items      []Item
	nav        NavState
	quiz       QuizState
	card       Scorecard
	generation uint64
	pending    Cancel
	seq        uint64 // last transition handed out, guarded by mu

	// Snapshot saves and OnChange calls happen outside mu, one transition
	// at a time in seq order.
	emitMu   sync.Mutex
	emitCond *sync.Cond
	emitted  uint64

	key       string
	advance   AdvanceMode
	scheduler Scheduler
	snapshots SnapshotStore
	onChange  func(View)
	now       func() time.Time
	log       *logger.Logger
}

// transition is the work left over once a state change is applied.
type transition struct {
	seq  uint64
	snap *Snapshot
	view View
}

// Start loads content from src, builds the item sequence and restores a
// saved position when one matches the course length.
func Start(ctx context.Context, src Source, opts Options) (*Session, error) {
	s := &Session{
		key:       opts.SessionKey,
		advance:   opts.Advance,
		scheduler: opts.Scheduler,
		snapshots: opts.Snapshots,
		onChange:  opts.OnChange,
		now:       opts.Now,
		log:       opts.Logger,
	}
	s.emitCond = sync.NewCond(&s.emitMu)
	if s.key == "" {
		s.key = uuid.NewString()
	}
	if s.scheduler == nil {
		s.scheduler = RealScheduler()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("session", s.key)

	content, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}
	items, err := Assemble(content.Lessons, content.Questions)
	if err != nil {
		return nil, err
	}
	s.items = items
	s.nav = NewNavState(len(items))
	s.restore(ctx)
	s.enterStep()

	lessons, quizzes := CountKinds(items)
	s.log.Info("Course loaded", "lessons", lessons, "quizzes", quizzes, "step", s.nav.Step+1)
	return s, nil
}

func (s *Session) Key() string { return s.key }

func (s *Session) restore(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	snap, err := s.snapshots.Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		return
	case err != nil:
		s.log.Warn("Could not load progress snapshot", "error", err)
		return
	}
	if snap.TotalSteps != len(s.items) || snap.CurrentStep < 0 || snap.CurrentStep >= len(s.items) {
		s.log.Debug("Ignoring stale progress snapshot", "saved_total", snap.TotalSteps, "total", len(s.items))
		return
	}
	s.nav.Step = snap.CurrentStep
}

// View returns the current render projection.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render()
}

func (s *Session) Next() View        { return s.navigate(NavNext) }
func (s *Session) Previous() View    { return s.navigate(NavPrevious) }
func (s *Session) JumpToStart() View { return s.navigate(NavJumpToStart) }
func (s *Session) JumpToEnd() View   { return s.navigate(NavJumpToEnd) }
func (s *Session) Restart() View     { return s.navigate(NavRestart) }

func (s *Session) navigate(ev NavEvent) View {
	s.mu.Lock()
	tr := s.navigateLocked(ev)
	s.mu.Unlock()

	s.emit(tr)
	return tr.view
}

func (s *Session) navigateLocked(ev NavEvent) transition {
	before := s.nav
	s.nav = s.nav.Apply(ev)

	if s.nav != before {
		s.cancelPending()
		if !s.nav.Completed && (s.nav.Step != before.Step || before.Completed) {
			s.enterStep()
		}
	}
	if ev == NavRestart {
		s.card = Scorecard{}
	}
	if s.nav.Completed && !before.Completed {
		s.log.Info("Course completed")
	} else {
		s.log.Debug("Navigated", "event", ev.String(), "step", s.nav.Step+1)
	}

	snap := Snapshot{CurrentStep: s.nav.Step, TotalSteps: s.nav.Total, Timestamp: s.now().UTC()}
	return s.transitionLocked(&snap)
}

// enterStep resets the quiz when the current item is one. Every entry gets
// a new generation so timers from an earlier visit are ignored.
func (s *Session) enterStep() {
	s.generation++
	item := s.items[s.nav.Step]
	if item.Kind != QuizItem {
		s.quiz = QuizState{}
		return
	}
	s.quiz = NewQuiz(item.Title, item.Questions)
	s.log.Debug("Starting quiz", "title", item.Title, "questions", len(item.Questions))
}

// Select picks option i of the current question.
func (s *Session) Select(option int) (View, error) {
	return s.quizEvent(func() error {
		next, err := s.quiz.Select(option)
		if err != nil {
			return err
		}
		s.quiz = next
		return nil
	})
}

// Submit grades the pending choice. In timed mode it also schedules the
// move to the next question.
func (s *Session) Submit() (View, error) {
	return s.quizEvent(func() error {
		next, err := s.quiz.Submit()
		if err != nil {
			return err
		}
		s.quiz = next
		s.log.Debug("Answer submitted", "question", s.quiz.Current+1, "correct", s.quiz.LastCorrect)
		if s.advance.Timed {
			s.scheduleAdvance()
		}
		return nil
	})
}

// NextQuestion leaves the feedback for the next question or the results.
func (s *Session) NextQuestion() (View, error) {
	return s.quizEvent(func() error {
		s.cancelPending()
		return s.advanceQuiz()
	})
}

// Retake starts the current quiz over. Its earlier result stays on the
// scorecard until the retake finishes.
func (s *Session) Retake() (View, error) {
	return s.quizEvent(func() error {
		s.cancelPending()
		s.generation++
		s.quiz = s.quiz.Retake()
		return nil
	})
}

// CloseQuiz leaves a finished quiz and moves to the next step.
func (s *Session) CloseQuiz() (View, error) {
	s.mu.Lock()
	if err := s.requireQuiz(); err != nil {
		v := s.render()
		s.mu.Unlock()
		return v, err
	}
	if s.quiz.Phase != Finished {
		v := s.render()
		s.mu.Unlock()
		return v, ErrQuizInProgress
	}
	tr := s.navigateLocked(NavNext)
	s.mu.Unlock()

	s.emit(tr)
	return tr.view, nil
}

// Close stops any pending timed advance.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPending()
}

func (s *Session) quizEvent(apply func() error) (View, error) {
	s.mu.Lock()
	err := s.requireQuiz()
	if err == nil {
		err = apply()
	}
	if err != nil {
		v := s.render()
		s.mu.Unlock()
		return v, err
	}
	tr := s.transitionLocked(nil)
	s.mu.Unlock()

	s.emit(tr)
	return tr.view, nil
}

func (s *Session) requireQuiz() error {
	if s.nav.Completed || s.items[s.nav.Step].Kind != QuizItem {
		return ErrNotInQuiz
	}
	return nil
}

func (s *Session) advanceQuiz() error {
	next, err := s.quiz.Advance()
	if err != nil {
		return err
	}
	s.quiz = next
	if s.quiz.Phase == Finished {
		r := s.quiz.Result()
		s.card = s.card.Record(s.nav.Step, r)
		s.log.Info("Quiz completed", "title", s.quiz.Title, "score", r.Score, "total", r.Total, "percentage", r.Percentage)
	}
	return nil
}

func (s *Session) currentKey() advanceKey {
	return advanceKey{step: s.nav.Step, generation: s.generation, question: s.quiz.Current}
}

func (s *Session) scheduleAdvance() {
	s.cancelPending()
	key := s.currentKey()
	s.pending = s.scheduler.AfterFunc(s.advance.Delay, func() {
		s.timedAdvance(key)
	})
}

func (s *Session) timedAdvance(key advanceKey) {
	s.mu.Lock()
	if s.nav.Completed || s.currentKey() != key || s.quiz.Phase != ShowingFeedback {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	if err := s.advanceQuiz(); err != nil {
		s.mu.Unlock()
		s.log.Warn("Timed advance failed", "error", err)
		return
	}
	tr := s.transitionLocked(nil)
	s.mu.Unlock()

	s.emit(tr)
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) render() View {
	return Render(s.items, s.nav, s.quiz, s.advance, s.card)
}

// transitionLocked numbers a finished state change. Every transition handed
// out must reach emit, or later ones wait forever.
func (s *Session) transitionLocked(snap *Snapshot) transition {
	s.seq++
	return transition{seq: s.seq, snap: snap, view: s.render()}
}

// emit saves the snapshot and notifies OnChange once every earlier
// transition has done the same.
func (s *Session) emit(tr transition) {
	s.emitMu.Lock()
	for s.emitted+1 != tr.seq {
		s.emitCond.Wait()
	}
	s.emitMu.Unlock()
	defer func() {
		s.emitMu.Lock()
		s.emitted = tr.seq
		s.emitCond.Broadcast()
		s.emitMu.Unlock()
	}()

	if tr.snap != nil {
		s.save(*tr.snap)
	}
	if s.onChange != nil {
		s.onChange(tr.view)
	}
}

// save writes the snapshot; failures only get logged.
func (s *Session) save(snap Snapshot) {
	if s.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.snapshots.Save(ctx, s.key, snap); err != nil {
		s.log.Warn("Could not save progress snapshot", "error", err)
	}
}
