package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;not null;unique" json:"username"`
	Email     string    `gorm:"size:255;not null;unique" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile  *UserProfile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Subjects []UserSubject `gorm:"foreignKey:UserID" json:"subjects,omitempty"`
}

// BeforeCreate hashes the password before saving to the database
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// ValidatePassword checks if the provided password matches the stored hash
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

type University struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:200;not null" json:"name"`
	ShortName string `gorm:"size:50" json:"short_name"`
	City      string `gorm:"size:100" json:"city"`
	Website   string `gorm:"size:255" json:"website"`
}

type UserProfile struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;unique" json:"user_id"`
	UniversityID    *uint       `json:"university_id,omitempty"`
	University      *University `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	Faculty         string      `gorm:"size:100" json:"faculty"`
	YearOfStudy     int         `json:"year_of_study"`
	Bio             string      `gorm:"size:500" json:"bio"`
	Telegram        string      `gorm:"size:50" json:"telegram"`
	Whatsapp        string      `gorm:"size:50" json:"whatsapp"`
	Phone           string      `gorm:"size:20" json:"phone"`
	ShowContactInfo bool        `gorm:"default:false" json:"show_contact_info"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// StudyLevel derives a display level from the year of study.
func (p *UserProfile) StudyLevel() string {
	switch {
	case p.YearOfStudy == 1:
		return "Beginner"
	case p.YearOfStudy == 2:
		return "Developing"
	case p.YearOfStudy >= 3 && p.YearOfStudy <= 5:
		return "Advanced"
	default:
		return "Not specified"
	}
}

// SubjectBrief is the subject summary embedded in profile responses.
type SubjectBrief struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// SimpleProfile is the flattened profile shape used by recommendations,
// mutual likes and study session responses.
type SimpleProfile struct {
	ID          uint           `json:"id"`
	Username    string         `json:"username"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Faculty     string         `json:"faculty"`
	YearOfStudy int            `json:"year_of_study"`
	StudyLevel  string         `json:"study_level"`
	Bio         string         `json:"bio"`
	Subjects    []SubjectBrief `json:"subjects,omitempty"`
}

// SimpleProfileFor flattens a user with their optional profile and subject rows.
func SimpleProfileFor(user *User) SimpleProfile {
	sp := SimpleProfile{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if user.Profile != nil {
		sp.Faculty = user.Profile.Faculty
		sp.YearOfStudy = user.Profile.YearOfStudy
		sp.StudyLevel = user.Profile.StudyLevel()
		sp.Bio = user.Profile.Bio
	}
	for _, us := range user.Subjects {
		brief := SubjectBrief{ID: us.SubjectID, Level: us.Level}
		if us.Subject != nil {
			brief.Name = us.Subject.Name
		}
		sp.Subjects = append(sp.Subjects, brief)
	}
	return sp
}
