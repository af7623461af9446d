// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"carezy/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes seeding behavior.
type Options struct {
	// SkipBcrypt stores a plaintext password marker instead of hashing.
	// Much faster for large seeds; never use outside development.
	SkipBcrypt bool
	// MaxDays is the spread of generated created_at timestamps.
	MaxDays int
}

// moodNotes are paired loosely with score ranges so seeded data reads
// plausibly in the dashboard.
var moodNotes = map[string][]string{
	"low": {
		"Everything felt heavy today, could barely get out of bed",
		"Argument at work left me drained",
		"Couldn't sleep last night, anxious all day",
		"Missing home a lot lately",
	},
	"mid": {
		"Average day, nothing special",
		"Got some things done but felt flat",
		"Okay morning, tired by the evening",
		"A bit restless but managed",
	},
	"high": {
		"Great walk in the park, felt really present",
		"Finished a project I'd been putting off!",
		"Lovely dinner with friends",
		"Slept well and woke up energized",
	},
}

var taskTitles = []string{
	"Morning meditation",
	"Drink 8 glasses of water",
	"Call a friend",
	"30 minute walk",
	"Journal before bed",
	"Stretch for 10 minutes",
	"No screens after 10pm",
	"Cook a proper meal",
	"Read 20 pages",
	"Tidy the desk",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &Factory{
		db:   db,
		opts: opts,
		r:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pastTime returns a timestamp spread over the configured window.
func (f *Factory) pastTime() time.Time {
	daysBack := f.r.Intn(f.opts.MaxDays)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateMoodEntry persists a mood log for the given user with a note that
// roughly matches the score.
func (f *Factory) CreateMoodEntry(user *models.User) (*models.MoodEntry, error) {
	score := f.r.Intn(10) + 1
	bucket := "mid"
	switch {
	case score <= 3:
		bucket = "low"
	case score >= 8:
		bucket = "high"
	}
	notes := moodNotes[bucket]

	entry := &models.MoodEntry{
		UserID:    user.ID,
		MoodScore: score,
		Note:      notes[f.r.Intn(len(notes))],
		CreatedAt: f.pastTime(),
	}
	if err := f.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateTask persists a task for the given user.
func (f *Factory) CreateTask(user *models.User) (*models.Task, error) {
	status := models.TaskStatusPending
	if f.r.Intn(2) == 0 {
		status = models.TaskStatusCompleted
	}

	task := &models.Task{
		UserID:      user.ID,
		Title:       taskTitles[f.r.Intn(len(taskTitles))],
		Description: gofakeit.Sentence(8),
		DueDate:     time.Now().AddDate(0, 0, f.r.Intn(14)).Format("2006-01-02"),
		Status:      status,
		CreatedAt:   f.pastTime(),
	}
	if err := f.db.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Run wipes existing demo data and seeds the given number of users, each
// with a spread of mood logs and tasks.
func Run(db *gorm.DB, numUsers int, opts Options) error {
	f := NewFactory(db, opts)

	for i := 0; i < numUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}

		numMoods := f.r.Intn(15) + 5
		for j := 0; j < numMoods; j++ {
			if _, err := f.CreateMoodEntry(user); err != nil {
				return fmt.Errorf("seed mood for user %d: %w", user.ID, err)
			}
		}

		numTasks := f.r.Intn(6) + 2
		for j := 0; j < numTasks; j++ {
			if _, err := f.CreateTask(user); err != nil {
				return fmt.Errorf("seed task for user %d: %w", user.ID, err)
			}
		}
	}

	log.Printf("seeded %d users with mood logs and tasks", numUsers)
	return nil
}

// ClearAll removes all seeded rows. Child tables go first.
func ClearAll(db *gorm.DB) error {
	for _, model := range []any{
		&models.MoodEntry{},
		&models.Task{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
