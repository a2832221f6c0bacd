package course

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	content Content
	err     error
}

func (f fakeSource) Load(context.Context) (Content, error) {
	return f.content, f.err
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeScheduler records callbacks instead of running them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last(t *testing.T) *fakeTimer {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		t.Fatal("no timer scheduled")
	}
	return s.timers[len(s.timers)-1]
}

type failingSnapshots struct{}

func (failingSnapshots) Save(context.Context, string, Snapshot) error {
	return errors.New("storage full")
}

func (failingSnapshots) Load(context.Context, string) (Snapshot, error) {
	return Snapshot{}, errors.New("storage offline")
}

func startSession(t *testing.T, lessons, questions int, opts Options) *Session {
	t.Helper()
	src := fakeSource{content: Content{Lessons: testLessons(lessons), Questions: testQuestions(questions)}}
	s, err := Start(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// mustView wraps a session event that is expected to succeed:
// mustView(t)(s.Submit()).
func mustView(t *testing.T) func(View, error) View {
	return func(v View, err error) View {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

func TestSessionWalkthrough(t *testing.T) {
	// Items: L1, Quiz(q1,q2), L2, Quiz(q3). Correct answers are 0, 1, 2.
	s := startSession(t, 2, 3, Options{})

	v := s.View()
	if v.Screen != ScreenLesson || v.StepLabel != "1 / 4" || v.PrevEnabled || v.Lesson.Title != "Lesson 1" {
		t.Fatalf("initial view = %+v", v)
	}

	v = s.Next()
	if v.Screen != ScreenQuiz || v.Quiz.Heading != "Question 1 of 2" || v.Quiz.Title != "Quiz: Lesson 1" {
		t.Fatalf("quiz view = %+v", v.Quiz)
	}
	if _, err := s.Submit(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Submit without selection err = %v", err)
	}

	mustView(t)(s.Select(0))
	v = mustView(t)(s.Submit())
	if v.Quiz.Feedback == nil || !v.Quiz.Feedback.Correct || v.Quiz.AdvanceLabel != "Next Question" {
		t.Fatalf("feedback view = %+v", v.Quiz)
	}
	if _, err := s.CloseQuiz(); !errors.Is(err, ErrQuizInProgress) {
		t.Fatalf("CloseQuiz mid quiz err = %v", err)
	}

	mustView(t)(s.NextQuestion())
	mustView(t)(s.Select(3))
	v = mustView(t)(s.Submit())
	if v.Quiz.Feedback.Correct || v.Quiz.AdvanceLabel != "Finish Quiz" {
		t.Fatalf("feedback view = %+v", v.Quiz)
	}
	v = mustView(t)(s.NextQuestion())
	if v.Quiz.Result == nil || v.Quiz.Result.Line != "1 / 2 (50%)" || v.Quiz.Result.Class != "score-fair" {
		t.Fatalf("result = %+v", v.Quiz.Result)
	}

	v = mustView(t)(s.CloseQuiz())
	if v.Screen != ScreenLesson || v.StepLabel != "3 / 4" {
		t.Fatalf("after close = %+v", v)
	}

	s.Next()
	mustView(t)(s.Select(2))
	mustView(t)(s.Submit())
	v = mustView(t)(s.NextQuestion())
	if v.Quiz.Result.Percentage != 100 || v.Quiz.Result.Class != "score-excellent" {
		t.Fatalf("result = %+v", v.Quiz.Result)
	}

	v = mustView(t)(s.CloseQuiz())
	if v.Screen != ScreenComplete || v.Summary == nil {
		t.Fatalf("completion = %+v", v)
	}
	if v.Summary.TotalItems != 4 || v.Summary.Lessons != 2 || v.Summary.Quizzes != 2 {
		t.Fatalf("summary = %+v", *v.Summary)
	}
	if !v.Summary.Scored || v.Summary.Score.Line != "2 / 3 (67%)" {
		t.Fatalf("course score = %+v", v.Summary.Score)
	}
	if _, err := s.Select(0); !errors.Is(err, ErrNotInQuiz) {
		t.Fatalf("Select on summary err = %v", err)
	}

	v = s.Restart()
	if v.Screen != ScreenLesson || v.StepLabel != "1 / 4" {
		t.Fatalf("after restart = %+v", v)
	}
	s.JumpToEnd()
	v = s.Next()
	if v.Screen != ScreenComplete || v.Summary.Scored {
		t.Fatalf("restart kept the old scores: %+v", v.Summary)
	}
}

func TestSessionCourseScore(t *testing.T) {
	// Two lessons and three questions: both answers in the first quiz are
	// right, the only answer in the second is wrong.
	s := startSession(t, 2, 3, Options{})

	s.Next()
	for _, pick := range []int{0, 1} {
		mustView(t)(s.Select(pick))
		mustView(t)(s.Submit())
		mustView(t)(s.NextQuestion())
	}
	v := mustView(t)(s.CloseQuiz())
	if v.StepLabel != "3 / 4" {
		t.Fatalf("step = %s", v.StepLabel)
	}

	s.Next()
	mustView(t)(s.Select(0))
	mustView(t)(s.Submit())
	mustView(t)(s.NextQuestion())
	v = mustView(t)(s.CloseQuiz())

	if v.Screen != ScreenComplete {
		t.Fatalf("screen = %s", v.Screen)
	}
	want := ResultView{
		Score:      2,
		Total:      3,
		Percentage: 67,
		Class:      "score-fair",
		Message:    "Fair performance. Consider reviewing the material.",
		Line:       "2 / 3 (67%)",
	}
	if !v.Summary.Scored || v.Summary.Score != want {
		t.Fatalf("course score = %+v, want %+v", v.Summary.Score, want)
	}
}

func TestSessionRetakeReplacesScore(t *testing.T) {
	s := startSession(t, 1, 1, Options{})
	s.Next()
	mustView(t)(s.Select(3))
	mustView(t)(s.Submit())
	mustView(t)(s.NextQuestion())
	mustView(t)(s.Retake())
	mustView(t)(s.Select(0))
	mustView(t)(s.Submit())
	mustView(t)(s.NextQuestion())

	v := mustView(t)(s.CloseQuiz())
	if v.Summary.Score.Line != "1 / 1 (100%)" {
		t.Fatalf("course score = %+v", v.Summary.Score)
	}
}

func TestSessionQuizResetsOnReentry(t *testing.T) {
	s := startSession(t, 1, 2, Options{})
	s.Next()
	mustView(t)(s.Select(0))
	mustView(t)(s.Submit())

	s.Previous()
	v := s.Next()
	if v.Quiz.Score != 0 || v.Quiz.Number != 1 || v.Quiz.Feedback != nil || v.Quiz.CanSubmit {
		t.Fatalf("quiz not reset: %+v", v.Quiz)
	}
}

func TestSessionQuizEventsRejectedOnLesson(t *testing.T) {
	s := startSession(t, 1, 1, Options{})
	for name, call := range map[string]func() (View, error){
		"select": func() (View, error) { return s.Select(0) },
		"submit": s.Submit,
		"next":   s.NextQuestion,
		"retake": s.Retake,
		"close":  s.CloseQuiz,
	} {
		if _, err := call(); !errors.Is(err, ErrNotInQuiz) {
			t.Errorf("%s err = %v, want ErrNotInQuiz", name, err)
		}
	}
}

func TestSessionRetake(t *testing.T) {
	s := startSession(t, 1, 1, Options{})
	s.Next()
	mustView(t)(s.Select(1))
	mustView(t)(s.Submit())
	v := mustView(t)(s.NextQuestion())
	if v.Quiz.Result.Score != 0 {
		t.Fatalf("result = %+v", v.Quiz.Result)
	}
	v = mustView(t)(s.Retake())
	if v.Quiz.Result != nil || v.Quiz.Number != 1 || v.Quiz.Score != 0 {
		t.Fatalf("after retake = %+v", v.Quiz)
	}
}

func TestSessionTimedAdvance(t *testing.T) {
	sched := &fakeScheduler{}
	var mu sync.Mutex
	var views []View
	s := startSession(t, 1, 2, Options{
		Advance:   TimedAdvance(0),
		Scheduler: sched,
		OnChange: func(v View) {
			mu.Lock()
			views = append(views, v)
			mu.Unlock()
		},
	})

	s.Next()
	mustView(t)(s.Select(0))
	v := mustView(t)(s.Submit())
	if !v.Quiz.AutoAdvance {
		t.Fatal("AutoAdvance not set in timed mode")
	}
	timer := sched.last(t)
	if timer.delay != DefaultAdvanceDelay {
		t.Fatalf("delay = %v", timer.delay)
	}

	timer.f()
	v = s.View()
	if v.Quiz.Number != 2 || v.Quiz.Feedback != nil {
		t.Fatalf("timed advance did not move on: %+v", v.Quiz)
	}
	mu.Lock()
	got := views[len(views)-1]
	mu.Unlock()
	if got.Quiz.Number != 2 {
		t.Fatalf("OnChange last view = %+v", got.Quiz)
	}

	// Firing the same callback twice must not skip a question.
	timer.f()
	if n := s.View().Quiz.Number; n != 2 {
		t.Fatalf("stale timer advanced to question %d", n)
	}
}

func TestSessionStaleTimerAfterNavigation(t *testing.T) {
	sched := &fakeScheduler{}
	s := startSession(t, 1, 2, Options{Advance: TimedAdvance(time.Second), Scheduler: sched})

	s.Next()
	mustView(t)(s.Select(0))
	mustView(t)(s.Submit())
	timer := sched.last(t)

	s.Previous()
	if !timer.stopped {
		t.Fatal("navigation did not cancel the pending advance")
	}
	s.Next()

	// A callback that slipped past Stop sees a new generation.
	timer.f()
	v := s.View()
	if v.Quiz.Number != 1 || v.Quiz.Feedback != nil {
		t.Fatalf("stale timer changed the re-entered quiz: %+v", v.Quiz)
	}
}

func TestSessionManualNextCancelsTimer(t *testing.T) {
	sched := &fakeScheduler{}
	s := startSession(t, 1, 2, Options{Advance: TimedAdvance(time.Second), Scheduler: sched})

	s.Next()
	mustView(t)(s.Select(0))
	mustView(t)(s.Submit())
	timer := sched.last(t)
	mustView(t)(s.NextQuestion())
	if !timer.stopped {
		t.Fatal("NextQuestion did not cancel the pending advance")
	}
	timer.f()
	if n := s.View().Quiz.Number; n != 2 {
		t.Fatalf("question = %d, want 2", n)
	}
}

func TestSessionManualModeSchedulesNothing(t *testing.T) {
	sched := &fakeScheduler{}
	s := startSession(t, 1, 1, Options{Scheduler: sched})
	s.Next()
	mustView(t)(s.Select(0))
	mustView(t)(s.Submit())
	if len(sched.timers) != 0 {
		t.Fatalf("%d timers scheduled in manual mode", len(sched.timers))
	}
}

func TestSessionRestoresSnapshot(t *testing.T) {
	store := NewMemorySnapshotStore()
	ctx := context.Background()
	if err := store.Save(ctx, "learner-1", Snapshot{CurrentStep: 2, TotalSteps: 4}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s := startSession(t, 2, 3, Options{Snapshots: store, SessionKey: "learner-1"})
	if got := s.View().StepLabel; got != "3 / 4" {
		t.Fatalf("restored step = %s", got)
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.Next()
	snap, err := store.Load(ctx, "learner-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap != (Snapshot{CurrentStep: 3, TotalSteps: 4, Timestamp: now}) {
		t.Fatalf("saved snapshot = %+v", snap)
	}
}

func TestSessionIgnoresMismatchedSnapshot(t *testing.T) {
	store := NewMemorySnapshotStore()
	_ = store.Save(context.Background(), "learner-1", Snapshot{CurrentStep: 2, TotalSteps: 5})

	s := startSession(t, 2, 3, Options{Snapshots: store, SessionKey: "learner-1"})
	if got := s.View().StepLabel; got != "1 / 4" {
		t.Fatalf("step = %s, want 1 / 4", got)
	}
}

func TestSessionSnapshotFailuresAreNotFatal(t *testing.T) {
	s := startSession(t, 2, 0, Options{Snapshots: failingSnapshots{}})
	if v := s.Next(); v.StepLabel != "2 / 2" {
		t.Fatalf("step = %s", v.StepLabel)
	}
}

func TestSessionGeneratesKey(t *testing.T) {
	a := startSession(t, 1, 0, Options{})
	b := startSession(t, 1, 0, Options{})
	if a.Key() == "" || a.Key() == b.Key() {
		t.Fatalf("keys = %q, %q", a.Key(), b.Key())
	}
}

func TestStartContentUnavailable(t *testing.T) {
	_, err := Start(context.Background(), fakeSource{err: errors.New("HTTP error! status: 500")}, Options{})
	if !errors.Is(err, ErrContentUnavailable) {
		t.Fatalf("err = %v, want ErrContentUnavailable", err)
	}

	_, err = Start(context.Background(), fakeSource{content: Content{Questions: testQuestions(3)}}, Options{})
	if !errors.Is(err, ErrContentUnavailable) {
		t.Fatalf("err = %v, want ErrContentUnavailable", err)
	}
}

// gatedSnapshots holds the first Save until release is closed.
type gatedSnapshots struct {
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
	last  Snapshot
}

func newGatedSnapshots() *gatedSnapshots {
	return &gatedSnapshots{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedSnapshots) Save(_ context.Context, _ string, snap Snapshot) error {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
		<-g.release
	}
	g.mu.Lock()
	g.last = snap
	g.mu.Unlock()
	return nil
}

func (g *gatedSnapshots) Load(context.Context, string) (Snapshot, error) {
	return Snapshot{}, ErrNoSnapshot
}

func TestSessionEmitsInTransitionOrder(t *testing.T) {
	store := newGatedSnapshots()
	var mu sync.Mutex
	var labels []string
	s := startSession(t, 3, 0, Options{
		Snapshots: store,
		OnChange: func(v View) {
			mu.Lock()
			labels = append(labels, v.StepLabel)
			mu.Unlock()
		},
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Next()
	}()
	<-store.entered

	go func() {
		defer wg.Done()
		s.Next()
	}()
	deadline := time.Now().Add(5 * time.Second)
	for s.View().StepLabel != "3 / 3" {
		if time.Now().After(deadline) {
			t.Fatal("second Next never applied")
		}
		time.Sleep(time.Millisecond)
	}

	close(store.release)
	wg.Wait()

	store.mu.Lock()
	saved := store.last
	store.mu.Unlock()
	if saved.CurrentStep != 2 {
		t.Fatalf("saved step = %d, want 2 (session at %s)", saved.CurrentStep, s.View().StepLabel)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(labels) != 2 || labels[0] != "2 / 3" || labels[1] != "3 / 3" {
		t.Fatalf("OnChange order = %v", labels)
	}
}
