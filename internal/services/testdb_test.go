package services

import (
	"testing"

	"github.com/whanarchyven/drsarha-conf/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.Session{},
		&models.ScheduledAdvance{},
		&models.Answer{},
		&models.Score{},
		&models.ChatTicket{},
		&models.ChatHistoryEntry{},
		&models.ChatSource{},
		&models.ChatPhrase{},
		&models.ChatSettings{},
		&models.ChatAnnouncement{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// seedQuiz creates a quiz with n questions of answerTimeSec each. Every
// question gets three options, the first of which is correct.
func seedQuiz(t *testing.T, db *gorm.DB, n, delaySec, answerTimeSec int) *models.Quiz {
	t.Helper()

	quiz := models.Quiz{Title: "Cardiology basics", DelaySeconds: delaySec, CreatedBy: 1}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	for i := 0; i < n; i++ {
		question := models.Question{
			QuizID:        quiz.ID,
			Title:         "Question",
			AnswerTimeSec: answerTimeSec,
			OrderNum:      i,
		}
		if err := db.Create(&question).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		for j := 0; j < 3; j++ {
			option := models.Option{
				QuestionID: question.ID,
				Text:       "Option",
				IsCorrect:  j == 0,
			}
			if err := db.Create(&option).Error; err != nil {
				t.Fatalf("seed option: %v", err)
			}
		}
	}
	return &quiz
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "x", FullName: "Test User"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}
