package services

import (
	"testing"
	"time"

	"github.com/whanarchyven/drsarha-conf/internal/models"

	"gorm.io/gorm"
)

func TestStartCreatesWaitingSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 2, 10, 30)

	session, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session.Status != models.SessionStatusWaiting {
		t.Errorf("status = %q, want waiting", session.Status)
	}
	if session.CurrentQuestionIndex != -1 {
		t.Errorf("index = %d, want -1", session.CurrentQuestionIndex)
	}
	if session.DelaySeconds != 10 {
		t.Errorf("delay = %d, want snapshot of quiz delay 10", session.DelaySeconds)
	}

	var advance models.ScheduledAdvance
	if err := db.Where("session_id = ?", session.ID).First(&advance).Error; err != nil {
		t.Fatalf("no advance scheduled: %v", err)
	}
	want := session.StartedAt.Add(10 * time.Second)
	if diff := advance.DueAt.Sub(want); diff < -time.Second || diff > time.Second {
		t.Errorf("advance due at %v, want ~%v", advance.DueAt, want)
	}
}

func TestStartForceFinishesLiveSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 2, 0, 30)

	first, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := svc.Start(quiz.ID); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	var prev models.Session
	if err := db.First(&prev, first.ID).Error; err != nil {
		t.Fatalf("load first session: %v", err)
	}
	if prev.Status != models.SessionStatusFinished {
		t.Errorf("prior session status = %q, want finished", prev.Status)
	}

	var live int64
	db.Model(&models.Session{}).
		Where("quiz_id = ? AND status != ?", quiz.ID, models.SessionStatusFinished).
		Count(&live)
	if live != 1 {
		t.Errorf("live sessions = %d, want exactly 1", live)
	}
}

func TestStartClearsForcePreview(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 1, 0, 30)
	db.Model(quiz).Update("force_preview", true)

	if _, err := svc.Start(quiz.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var reloaded models.Quiz
	db.First(&reloaded, quiz.ID)
	if reloaded.ForcePreview {
		t.Error("force_preview still set after start")
	}
}

func TestAdvanceWalksQuestionsThenFinishes(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 3, 0, 20)

	session, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.Advance(session.ID); err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
		var cur models.Session
		db.First(&cur, session.ID)
		if cur.Status != models.SessionStatusQuestion {
			t.Fatalf("after advance %d status = %q, want question", i, cur.Status)
		}
		if cur.CurrentQuestionIndex != i {
			t.Errorf("after advance %d index = %d", i, cur.CurrentQuestionIndex)
		}
		if cur.CurrentQuestionID == nil {
			t.Fatalf("after advance %d no current question id", i)
		}
		if cur.QuestionEndsAt == nil {
			t.Fatalf("after advance %d no question deadline", i)
		}
		var advance models.ScheduledAdvance
		if err := db.Where("session_id = ?", cur.ID).Order("id DESC").First(&advance).Error; err != nil {
			t.Fatalf("after advance %d no next advance scheduled: %v", i, err)
		}
	}

	if err := svc.Advance(session.ID); err != nil {
		t.Fatalf("final Advance: %v", err)
	}
	var final models.Session
	db.First(&final, session.ID)
	if final.Status != models.SessionStatusFinished {
		t.Errorf("final status = %q, want finished", final.Status)
	}
	if final.FinishedAt == nil {
		t.Error("finished_at not set")
	}
}

func TestAdvanceZeroQuestionsFinishesImmediately(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 0, 0, 20)

	session, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.Advance(session.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	var cur models.Session
	db.First(&cur, session.ID)
	if cur.Status != models.SessionStatusFinished {
		t.Errorf("status = %q, want finished", cur.Status)
	}
}

func TestAdvanceStaleEventsAreNoOps(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 1, 0, 20)

	session, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	// question, then finished
	if err := svc.Advance(session.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := svc.Advance(session.ID); err != nil {
		t.Fatalf("Advance to finish: %v", err)
	}

	// duplicate against the finished session
	if err := svc.Advance(session.ID); err != nil {
		t.Errorf("advance on finished session errored: %v", err)
	}
	var cur models.Session
	db.First(&cur, session.ID)
	if cur.Status != models.SessionStatusFinished {
		t.Errorf("status flipped to %q", cur.Status)
	}

	// against a session that no longer exists
	if err := svc.Advance(99999); err != nil {
		t.Errorf("advance on missing session errored: %v", err)
	}
}

func TestPublicStateCountdownAndQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 2, 30, 20)

	session, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	view, err := svc.PublicState(quiz.ID, 0)
	if err != nil {
		t.Fatalf("PublicState: %v", err)
	}
	if view == nil {
		t.Fatal("nil view for quiz with a session")
	}
	if view.Status != models.SessionStatusWaiting {
		t.Errorf("status = %q, want waiting", view.Status)
	}
	if view.TimeLeftSec <= 0 || view.TimeLeftSec > 30 {
		t.Errorf("time left = %d, want within (0,30]", view.TimeLeftSec)
	}
	if view.EndsAtMs == nil {
		t.Error("no absolute deadline in waiting view")
	}

	if err := svc.Advance(session.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	view, err = svc.PublicState(quiz.ID, 0)
	if err != nil {
		t.Fatalf("PublicState after advance: %v", err)
	}
	if view.Question == nil {
		t.Fatal("question phase view carries no question")
	}
	if len(view.Question.Options) != 3 {
		t.Errorf("options = %d, want 3", len(view.Question.Options))
	}
}

func TestPublicStateUnknownQuizReturnsNil(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())

	view, err := svc.PublicState(12345, 0)
	if err != nil {
		t.Fatalf("PublicState: %v", err)
	}
	if view != nil {
		t.Error("expected nil view for quiz that never ran")
	}
}

func TestActiveStatePrefersRunningQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())

	finishedQuiz := seedQuiz(t, db, 0, 0, 20)
	fs, err := svc.Start(finishedQuiz.ID)
	if err != nil {
		t.Fatalf("Start finished quiz: %v", err)
	}
	if err := svc.Advance(fs.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	runningQuiz := seedQuiz(t, db, 1, 0, 60)
	rs, err := svc.Start(runningQuiz.ID)
	if err != nil {
		t.Fatalf("Start running quiz: %v", err)
	}
	if err := svc.Advance(rs.ID); err != nil {
		t.Fatalf("Advance running quiz: %v", err)
	}

	view, err := svc.ActiveState(0)
	if err != nil {
		t.Fatalf("ActiveState: %v", err)
	}
	if view == nil || view.SessionID != rs.ID {
		t.Fatalf("active view did not pick the running question session")
	}
	if view.Status != models.SessionStatusQuestion {
		t.Errorf("status = %q, want question", view.Status)
	}
}

func TestActiveStateForcePreviewPinsWaiting(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	quiz := seedQuiz(t, db, 1, 0, 60)

	session, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.Advance(session.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	db.Model(quiz).Update("force_preview", true)

	view, err := svc.ActiveState(0)
	if err != nil {
		t.Fatalf("ActiveState: %v", err)
	}
	if view.Status != models.SessionStatusWaiting {
		t.Errorf("status = %q, want waiting under force preview", view.Status)
	}
	if view.Question != nil {
		t.Error("force preview leaked the running question")
	}

	// the per-quiz read is pinned the same way
	view, err = svc.PublicState(quiz.ID, 0)
	if err != nil {
		t.Fatalf("PublicState: %v", err)
	}
	if view.Status != models.SessionStatusWaiting || view.Question != nil || view.EndsAtMs != nil {
		t.Errorf("public view not pinned: %+v", view)
	}
}

func TestFinishedViewCarriesResultsAndRecap(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, nil, testLogger())
	answers := NewAnswerService(db)
	quiz := seedQuiz(t, db, 2, 0, 60)
	user := seedUser(t, db, "one@example.com")

	session, err := svc.Start(quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// answer the first question correctly, skip the second
	if err := svc.Advance(session.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	var cur models.Session
	db.First(&cur, session.ID)
	correctID := correctOptionID(t, db, *cur.CurrentQuestionID)
	if err := answers.Submit(session.ID, *cur.CurrentQuestionID, user.ID, []uint{correctID}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Advance(session.ID); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	view, err := svc.ActiveState(user.ID)
	if err != nil {
		t.Fatalf("ActiveState: %v", err)
	}
	if view.Status != models.SessionStatusFinished {
		t.Fatalf("status = %q, want finished", view.Status)
	}
	if view.Results == nil {
		t.Fatal("finished view has no results block")
	}
	if view.Results.MyScore != 1 || view.Results.TotalQuestions != 2 {
		t.Errorf("results = %d/%d, want 1/2", view.Results.MyScore, view.Results.TotalQuestions)
	}
	if len(view.Answers) != 2 {
		t.Fatalf("recap entries = %d, want 2", len(view.Answers))
	}
	for _, entry := range view.Answers {
		if len(entry.Answers) != 1 {
			t.Errorf("recap entry has %d correct answers, want 1", len(entry.Answers))
		}
	}
}

func TestSecondsLeft(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"past", now.Add(-5 * time.Second), 0},
		{"exact", now, 0},
		{"partial second rounds up", now.Add(1500 * time.Millisecond), 2},
		{"whole seconds", now.Add(10 * time.Second), 10},
	}
	for _, tc := range cases {
		if got := secondsLeft(tc.deadline, now); got != tc.want {
			t.Errorf("%s: secondsLeft = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func correctOptionID(t *testing.T, db *gorm.DB, questionID uint) uint {
	t.Helper()
	var option models.Option
	if err := db.Where("question_id = ? AND is_correct = ?", questionID, true).First(&option).Error; err != nil {
		t.Fatalf("no correct option for question %d: %v", questionID, err)
	}
	return option.ID
}
